package template

import (
	"regexp"

	"github.com/villetta-hq/villetta/internal/siteconfig"
)

// Anchor patterns for the hero section. Each matches the element's known
// surrounding markup plus its stock literal content, so a patched file no
// longer matches and a second pass with the same values is a fixed point.
var (
	heroKickerRe   = regexp.MustCompile(`(?s)(<h2[^>]*>\s*)Casa Immaginaria(\s*</h2>)`)
	heroHeadlineRe = regexp.MustCompile(`(?s)(<h1[^>]*>\s*)Il tuo rifugio urbano(\s*</h1>)`)
	heroDescRe     = regexp.MustCompile(`(?s)(<p[^>]*className="[^"]*text-muted-foreground[^"]*"[^>]*>\s*)Tra comfort e stile, scopri un nuovo modo di vivere la città\.\s*Rilassati, esplora e sentiti a casa fin dal primo momento\.(\s*</p>)`)
	heroPrimaryRe  = regexp.MustCompile(`(?s)(<Button[^>]*>\s*)Esplora la casa(\s*</Button>)`)
	heroOutlineRe  = regexp.MustCompile(`(?s)(<Button[^>]*variant="outline"[^>]*>\s*)Scopri esperienze(\s*</Button>)`)
)

type heroRule struct {
	name  string
	re    *regexp.Regexp
	value func(siteconfig.Hero) string
}

var heroRules = []heroRule{
	{"hero.kicker", heroKickerRe, func(h siteconfig.Hero) string { return h.Kicker }},
	{"hero.headline", heroHeadlineRe, func(h siteconfig.Hero) string { return h.Headline }},
	{"hero.description", heroDescRe, func(h siteconfig.Hero) string { return h.Description }},
	{"hero.primaryCta", heroPrimaryRe, func(h siteconfig.Hero) string { return h.PrimaryCTA }},
	{"hero.secondaryCta", heroOutlineRe, func(h siteconfig.Hero) string { return h.SecondaryCTA }},
}

// PatchHero rewrites the hero section copy. Anchors that no longer match the
// source are skipped and recorded on the report; everything outside the
// anchored inner text is left byte-identical.
func PatchHero(src string, hero siteconfig.Hero, report *PatchReport) string {
	out := src
	for _, rule := range heroRules {
		var ok bool
		out, ok = replaceInner(out, rule.re, rule.value(hero))
		if ok {
			report.applied(rule.name)
		} else {
			report.skipped(rule.name)
		}
	}
	return out
}
