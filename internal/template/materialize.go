package template

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/villetta-hq/villetta/internal/siteconfig"
)

// File is one materialized template file, ready for upload. Binary files
// carry their raw bytes in Content and are never patched.
type File struct {
	Path    string
	Binary  bool
	Content []byte
}

// ManifestEntry is the wire shape the deployment API expects for an inline
// file upload.
type ManifestEntry struct {
	Path     string `json:"file"`
	Data     string `json:"data"`
	Encoding string `json:"encoding"`
}

// ReadError reports the file that could not be read while walking the
// template tree.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("template: read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

var excludePatterns = []string{
	"node_modules",
	".git",
	".next",
	".DS_Store",
	"pnpm-lock.yaml",
	".env",
	".env.local",
}

var binaryExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".ico": {},
	".svg": {}, ".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {}, ".otf": {},
	".mp4": {}, ".webm": {}, ".mp3": {}, ".wav": {}, ".pdf": {},
}

// excluded matches a pattern anywhere in the relative path or against the
// entry name exactly, so variants like .env.production and .gitignore are
// kept out of the manifest along with the directories they name.
func excluded(rel, name string) bool {
	for _, pattern := range excludePatterns {
		if name == pattern || strings.Contains(rel, pattern) {
			return true
		}
	}
	return false
}

func isBinary(path string) bool {
	_, ok := binaryExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func collect(root, rel string, files *[]File) error {
	entries, err := os.ReadDir(filepath.Join(root, rel))
	if err != nil {
		return &ReadError{Path: rel, Err: err}
	}
	for _, entry := range entries {
		entryRel := entry.Name()
		if rel != "" {
			entryRel = rel + "/" + entry.Name()
		}
		if excluded(entryRel, entry.Name()) {
			continue
		}
		if entry.IsDir() {
			if err := collect(root, entryRel, files); err != nil {
				return err
			}
			continue
		}
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(entryRel)))
		if err != nil {
			return &ReadError{Path: entryRel, Err: err}
		}
		*files = append(*files, File{Path: entryRel, Binary: isBinary(entryRel), Content: content})
	}
	return nil
}

// Materialize walks the template tree rooted at root, applies the hero,
// layout and palette patches to their target files, and returns every
// surviving file with a report of which anchors applied. Paths in the result
// are slash-separated and relative to root.
func Materialize(root string, cfg *siteconfig.Configuration) ([]File, *PatchReport, error) {
	var files []File
	if err := collect(root, "", &files); err != nil {
		return nil, nil, err
	}
	report := &PatchReport{}
	for i, f := range files {
		if f.Binary {
			continue
		}
		switch {
		case f.Path == "app/globals.css":
			files[i].Content = []byte(PatchGlobalsCSS(string(f.Content), cfg.Palette, report))
		case trimExt(f.Path) == "components/hero-section":
			files[i].Content = []byte(PatchHero(string(f.Content), cfg.Hero, report))
		case trimExt(f.Path) == "app/layout":
			files[i].Content = []byte(PatchLayout(string(f.Content), cfg.Fonts, report))
		}
	}
	return files, report, nil
}

// Manifest converts materialized files into upload entries. Binary files are
// base64 encoded; everything else is shipped as UTF-8 text.
func Manifest(files []File) []ManifestEntry {
	entries := make([]ManifestEntry, 0, len(files))
	for _, f := range files {
		if f.Binary {
			entries = append(entries, ManifestEntry{
				Path:     f.Path,
				Data:     base64.StdEncoding.EncodeToString(f.Content),
				Encoding: "base64",
			})
			continue
		}
		entries = append(entries, ManifestEntry{
			Path:     f.Path,
			Data:     string(f.Content),
			Encoding: "utf-8",
		})
	}
	return entries
}
