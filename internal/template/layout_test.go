package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villetta-hq/villetta/internal/siteconfig"
)

const layoutFixture = `import type { Metadata } from 'next'
import { Playfair_Display, Inter } from 'next/font/google'
import './globals.css'

const playfair = Playfair_Display({
  subsets: ['latin'],
  variable: '--font-serif',
})
const inter = Inter({ subsets: ['latin'], variable: '--font-sans' })

export default function RootLayout({ children }: { children: React.ReactNode }) {
  return (
    <html lang="it">
      <body className={` + "`${playfair.variable} ${inter.variable} font-sans antialiased`" + `}>
        {children}
      </body>
    </html>
  )
}
`

func TestFontBindingName(t *testing.T) {
	cases := map[string]string{
		"Inter":              "inter",
		"Playfair_Display":   "playfairDisplay",
		"Source_Serif_4":     "sourceSerif4",
		"EB_Garamond":        "eBGaramond",
		"Cormorant_Garamond": "cormorantGaramond",
		"":                   "",
	}
	for importName, want := range cases {
		assert.Equal(t, want, fontBindingName(importName), "import %q", importName)
	}
}

func TestPatchLayoutRewritesFonts(t *testing.T) {
	fonts := siteconfig.Fonts{Sans: "Nunito", Serif: "Cormorant_Garamond"}

	report := &PatchReport{}
	out := PatchLayout(layoutFixture, fonts, report)

	require.Empty(t, report.Skipped)
	assert.Len(t, report.Applied, 3)

	assert.Contains(t, out, "import { Cormorant_Garamond, Nunito } from 'next/font/google'")
	assert.Contains(t, out, "const cormorantGaramond = Cormorant_Garamond({")
	assert.Contains(t, out, "const nunito = Nunito({ subsets: ['latin'], variable: '--font-sans' })")
	assert.Contains(t, out, "${cormorantGaramond.variable} ${nunito.variable} font-sans antialiased")

	assert.NotContains(t, out, "Playfair_Display")
	assert.NotContains(t, out, "playfair.variable")
}

func TestPatchLayoutBindingNamesStayConsistent(t *testing.T) {
	fonts := siteconfig.Fonts{Sans: "Work_Sans", Serif: "Source_Serif_4"}

	out := PatchLayout(layoutFixture, fonts, &PatchReport{})

	// The declaration and the body class list reference the same bindings.
	assert.Contains(t, out, "const sourceSerif4 = Source_Serif_4({")
	assert.Contains(t, out, "const workSans = Work_Sans({")
	assert.Contains(t, out, "${sourceSerif4.variable} ${workSans.variable}")
}

func TestPatchLayoutSkipsWhenAnchorsDrifted(t *testing.T) {
	report := &PatchReport{}
	out := PatchLayout("export default function RootLayout() {}", siteconfig.Fonts{Sans: "Inter", Serif: "Lora"}, report)

	assert.Equal(t, "export default function RootLayout() {}", out)
	assert.Empty(t, report.Applied)
	assert.Len(t, report.Skipped, 3)
}
