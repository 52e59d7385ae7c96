package template

import (
	"regexp"

	"github.com/villetta-hq/villetta/internal/siteconfig"
)

var (
	rootBlockRe = regexp.MustCompile(`(?s)(:root\s*\{)(.*?)(\})`)
	darkBlockRe = regexp.MustCompile(`(?s)(\.dark\s*\{)(.*?)(\})`)
)

// tokenLineRe anchors on the start of a line so that --foreground never
// matches inside --primary-foreground or --muted-foreground.
func tokenLineRe(cssVar string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)(^\s*` + regexp.QuoteMeta(cssVar) + `:\s*)([^;]+)(;)`)
}

func patchPaletteBlock(src string, blockRe *regexp.Regexp, scope string, palette siteconfig.Palette, report *PatchReport) string {
	loc := blockRe.FindStringSubmatchIndex(src)
	if loc == nil {
		for _, token := range palette.Tokens() {
			report.skipped("palette." + scope + "." + token.CSSVar)
		}
		return src
	}
	body := src[loc[4]:loc[6]]
	for _, token := range palette.Tokens() {
		name := "palette." + scope + "." + token.CSSVar
		re := tokenLineRe(token.CSSVar)
		m := re.FindStringSubmatchIndex(body)
		if m == nil {
			report.skipped(name)
			continue
		}
		body = body[:m[4]] + token.Value + body[m[6]:]
		report.applied(name)
	}
	return src[:loc[4]] + body + src[loc[6]:]
}

// PatchGlobalsCSS rewrites the palette custom properties in the :root and
// .dark blocks of globals.css. Tokens outside those two blocks are left
// alone, so a theme token reused elsewhere in the file keeps its value.
func PatchGlobalsCSS(src string, palette siteconfig.PaletteGroup, report *PatchReport) string {
	out := patchPaletteBlock(src, rootBlockRe, "light", palette.Light, report)
	out = patchPaletteBlock(out, darkBlockRe, "dark", palette.Dark, report)
	return out
}
