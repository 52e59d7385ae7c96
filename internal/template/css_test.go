package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villetta-hq/villetta/internal/siteconfig"
)

const cssFixture = `@import 'tailwindcss';

:root {
  --background: oklch(1 0 0);
  --foreground: oklch(0.22 0.01 60);
  --primary: oklch(0.45 0.08 50);
  --primary-foreground: oklch(0.98 0.005 80);
  --secondary: oklch(0.94 0.01 75);
  --secondary-foreground: oklch(0.3 0.02 55);
  --muted: oklch(0.95 0.008 80);
  --muted-foreground: oklch(0.5 0.02 60);
  --accent: oklch(0.9 0.03 70);
  --accent-foreground: oklch(0.3 0.03 50);
  --border: oklch(0.88 0.01 75);
  --ring: oklch(0.45 0.08 50);
}

.dark {
  --background: oklch(0.2 0.01 55);
  --foreground: oklch(0.93 0.01 80);
  --primary: oklch(0.75 0.06 60);
  --primary-foreground: oklch(0.22 0.02 55);
  --secondary: oklch(0.28 0.015 60);
  --secondary-foreground: oklch(0.9 0.01 75);
  --muted: oklch(0.26 0.01 60);
  --muted-foreground: oklch(0.65 0.02 70);
  --accent: oklch(0.32 0.03 65);
  --accent-foreground: oklch(0.92 0.02 75);
  --border: oklch(0.32 0.015 60);
  --ring: oklch(0.75 0.06 60);
}

.sidebar {
  --background: oklch(0.5 0 0);
}
`

func testPalette(prefix string) siteconfig.Palette {
	return siteconfig.Palette{
		Background:          prefix + "-background",
		Foreground:          prefix + "-foreground",
		Primary:             prefix + "-primary",
		PrimaryForeground:   prefix + "-primary-fg",
		Secondary:           prefix + "-secondary",
		SecondaryForeground: prefix + "-secondary-fg",
		Muted:               prefix + "-muted",
		MutedForeground:     prefix + "-muted-fg",
		Accent:              prefix + "-accent",
		AccentForeground:    prefix + "-accent-fg",
		Border:              prefix + "-border",
		Ring:                prefix + "-ring",
	}
}

func TestPatchGlobalsCSSScopesBlocks(t *testing.T) {
	group := siteconfig.PaletteGroup{Light: testPalette("light"), Dark: testPalette("dark")}

	report := &PatchReport{}
	out := PatchGlobalsCSS(cssFixture, group, report)

	require.Empty(t, report.Skipped)
	assert.Len(t, report.Applied, 24)

	assert.Contains(t, out, "--background: light-background;")
	assert.Contains(t, out, "--background: dark-background;")
	assert.Contains(t, out, "--accent: light-accent;")
	assert.Contains(t, out, "--accent: dark-accent;")

	// The sidebar block sits outside :root and .dark and keeps its value.
	assert.Contains(t, out, "--background: oklch(0.5 0 0);")
}

func TestPatchGlobalsCSSDistinguishesForegroundTokens(t *testing.T) {
	group := siteconfig.PaletteGroup{Light: testPalette("light"), Dark: testPalette("dark")}

	out := PatchGlobalsCSS(cssFixture, group, &PatchReport{})

	assert.Contains(t, out, "--foreground: light-foreground;")
	assert.Contains(t, out, "--primary-foreground: light-primary-fg;")
	assert.Contains(t, out, "--muted-foreground: light-muted-fg;")
	assert.NotContains(t, out, "--primary-foreground: light-foreground;")
}

func TestPatchGlobalsCSSSkipsMissingTokens(t *testing.T) {
	trimmed := strings.Replace(cssFixture, "  --ring: oklch(0.45 0.08 50);\n", "", 1)
	group := siteconfig.PaletteGroup{Light: testPalette("light"), Dark: testPalette("dark")}

	report := &PatchReport{}
	PatchGlobalsCSS(trimmed, group, report)

	assert.Equal(t, []string{"palette.light.--ring"}, report.Skipped)
	assert.Len(t, report.Applied, 23)
}

func TestPatchGlobalsCSSMissingRootBlock(t *testing.T) {
	group := siteconfig.PaletteGroup{Light: testPalette("light"), Dark: testPalette("dark")}

	report := &PatchReport{}
	out := PatchGlobalsCSS(".dark {\n  --background: old;\n}\n", group, report)

	assert.Contains(t, out, "--background: dark-background;")
	assert.Len(t, report.Applied, 1)
	// All light tokens plus the eleven dark tokens absent from the block.
	assert.Len(t, report.Skipped, 23)
}
