package template

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/villetta-hq/villetta/internal/siteconfig"
)

var (
	layoutImportRe = regexp.MustCompile(`import \{[^}]+\} from 'next/font/google'`)
	layoutDeclsRe  = regexp.MustCompile(`(?s)const playfair = Playfair_Display\(\{.*?\}\)\s*const inter = Inter\(\{[^}]+\}\)`)
	layoutBodyRe   = regexp.MustCompile("className=\\{`\\$\\{playfair\\.variable\\} \\$\\{inter\\.variable\\} font-sans antialiased`\\}")
)

// fontBindingName derives the local binding for a font import identifier:
// lower-case first character, underscores stripped from the remainder.
// "Playfair_Display" becomes "playfairDisplay".
func fontBindingName(importName string) string {
	if importName == "" {
		return ""
	}
	runes := []rune(importName)
	head := string(unicode.ToLower(runes[0]))
	return head + strings.ReplaceAll(string(runes[1:]), "_", "")
}

// PatchLayout rewrites the font import, the two font declarations, and the
// body class list. All three rewrites derive the same binding names; if any
// one anchor is missing the others still apply, which keeps the rewrite
// surgical but is only referentially consistent when the template has not
// drifted.
func PatchLayout(src string, fonts siteconfig.Fonts, report *PatchReport) string {
	serifVar := fontBindingName(fonts.Serif)
	sansVar := fontBindingName(fonts.Sans)

	newImport := fmt.Sprintf("import { %s, %s } from 'next/font/google'", fonts.Serif, fonts.Sans)
	newDecls := fmt.Sprintf(`const %s = %s({
  subsets: ['latin'],
  variable: '--font-serif',
})
const %s = %s({ subsets: ['latin'], variable: '--font-sans' })`, serifVar, fonts.Serif, sansVar, fonts.Sans)
	newBody := fmt.Sprintf("className={`${%s.variable} ${%s.variable} font-sans antialiased`}", serifVar, sansVar)

	out := src
	for _, rule := range []struct {
		name        string
		re          *regexp.Regexp
		replacement string
	}{
		{"layout.fontImport", layoutImportRe, newImport},
		{"layout.fontDeclarations", layoutDeclsRe, newDecls},
		{"layout.bodyClassList", layoutBodyRe, newBody},
	} {
		var ok bool
		out, ok = replaceMatch(out, rule.re, rule.replacement)
		if ok {
			report.applied(rule.name)
		} else {
			report.skipped(rule.name)
		}
	}
	return out
}
