package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villetta-hq/villetta/internal/siteconfig"
)

const heroFixture = `export function HeroSection() {
  return (
    <section className="relative flex min-h-screen items-center">
      <h2 className="text-sm uppercase tracking-[0.35em]">
        Casa Immaginaria
      </h2>
      <h1 className="font-serif text-5xl md:text-7xl">
        Il tuo rifugio urbano
      </h1>
      <p className="mt-6 max-w-xl text-lg text-muted-foreground">
        Tra comfort e stile, scopri un nuovo modo di vivere la città.
        Rilassati, esplora e sentiti a casa fin dal primo momento.
      </p>
      <div className="mt-10 flex gap-4">
        <Button size="lg">
          Esplora la casa
        </Button>
        <Button size="lg" variant="outline">
          Scopri esperienze
        </Button>
      </div>
    </section>
  )
}
`

var testHero = siteconfig.Hero{
	Kicker:       "Villa Aurora",
	Headline:     "Una fuga sul mare",
	Description:  "Svegliati con la brezza del Tirreno.",
	PrimaryCTA:   "Prenota ora",
	SecondaryCTA: "Guarda le foto",
}

func TestPatchHeroRewritesAllAnchors(t *testing.T) {
	report := &PatchReport{}
	out := PatchHero(heroFixture, testHero, report)

	require.Empty(t, report.Skipped)
	assert.Len(t, report.Applied, 5)

	assert.Contains(t, out, "Villa Aurora")
	assert.Contains(t, out, "Una fuga sul mare")
	assert.Contains(t, out, "Svegliati con la brezza del Tirreno.")
	assert.Contains(t, out, "Prenota ora")
	assert.Contains(t, out, "Guarda le foto")

	assert.NotContains(t, out, "Casa Immaginaria")
	assert.NotContains(t, out, "Il tuo rifugio urbano")
	assert.NotContains(t, out, "Esplora la casa")
	assert.NotContains(t, out, "Scopri esperienze")

	// Markup around the inner text survives untouched.
	assert.Contains(t, out, `<h2 className="text-sm uppercase tracking-[0.35em]">`)
	assert.Contains(t, out, `<Button size="lg" variant="outline">`)
}

func TestPatchHeroSecondPassSkipsEverything(t *testing.T) {
	first := &PatchReport{}
	patched := PatchHero(heroFixture, testHero, first)
	require.Empty(t, first.Skipped)

	second := &PatchReport{}
	again := PatchHero(patched, testHero, second)

	assert.Equal(t, patched, again)
	assert.Empty(t, second.Applied)
	assert.Len(t, second.Skipped, 5)
}

func TestPatchHeroSkipsDriftedAnchor(t *testing.T) {
	drifted := strings.Replace(heroFixture, "Casa Immaginaria", "Qualcosa di nuovo", 1)

	report := &PatchReport{}
	out := PatchHero(drifted, testHero, report)

	assert.Equal(t, []string{"hero.kicker"}, report.Skipped)
	assert.Len(t, report.Applied, 4)
	assert.Contains(t, out, "Qualcosa di nuovo")
	assert.Contains(t, out, "Una fuga sul mare")
}
