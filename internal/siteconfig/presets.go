package siteconfig

import "encoding/json"

// FontOption pairs a display name with its Google Fonts import identifier.
type FontOption struct {
	Name       string `json:"name"`
	ImportName string `json:"importName"`
}

// SansFontOptions and SerifFontOptions are the selectable font families.
// Loaded once at init, never mutated.
var SansFontOptions = []FontOption{
	{Name: "Inter", ImportName: "Inter"},
	{Name: "Poppins", ImportName: "Poppins"},
	{Name: "Open Sans", ImportName: "Open_Sans"},
	{Name: "Roboto", ImportName: "Roboto"},
	{Name: "Lato", ImportName: "Lato"},
	{Name: "Source Sans 3", ImportName: "Source_Sans_3"},
	{Name: "Nunito", ImportName: "Nunito"},
	{Name: "Work Sans", ImportName: "Work_Sans"},
}

var SerifFontOptions = []FontOption{
	{Name: "Playfair Display", ImportName: "Playfair_Display"},
	{Name: "Lora", ImportName: "Lora"},
	{Name: "Merriweather", ImportName: "Merriweather"},
	{Name: "Libre Baskerville", ImportName: "Libre_Baskerville"},
	{Name: "Crimson Text", ImportName: "Crimson_Text"},
	{Name: "Source Serif 4", ImportName: "Source_Serif_4"},
	{Name: "EB Garamond", ImportName: "EB_Garamond"},
	{Name: "Cormorant Garamond", ImportName: "Cormorant_Garamond"},
}

// FontPreset is a curated sans/serif pairing.
type FontPreset struct {
	Name  string `json:"name"`
	Sans  string `json:"sans"`
	Serif string `json:"serif"`
}

var FontPresets = map[string]FontPreset{
	"classic":   {Name: "Classic", Sans: "Inter", Serif: "Playfair_Display"},
	"modern":    {Name: "Modern", Sans: "Poppins", Serif: "Lora"},
	"editorial": {Name: "Editorial", Sans: "Source_Sans_3", Serif: "Source_Serif_4"},
	"elegant":   {Name: "Elegant", Sans: "Work_Sans", Serif: "Cormorant_Garamond"},
	"friendly":  {Name: "Friendly", Sans: "Nunito", Serif: "Merriweather"},
}

// PalettePreset is a named light/dark palette pairing.
type PalettePreset struct {
	Name  string  `json:"name"`
	Light Palette `json:"light"`
	Dark  Palette `json:"dark"`
}

var PalettePresets = map[string]PalettePreset{
	"minimal": {
		Name: "Minimal",
		Light: Palette{
			Background:          "oklch(0.99 0 0)",
			Foreground:          "oklch(0 0 0)",
			Primary:             "oklch(0 0 0)",
			PrimaryForeground:   "oklch(1 0 0)",
			Secondary:           "oklch(0.94 0 0)",
			SecondaryForeground: "oklch(0 0 0)",
			Muted:               "oklch(0.97 0 0)",
			MutedForeground:     "oklch(0.44 0 0)",
			Accent:              "oklch(0.94 0 0)",
			AccentForeground:    "oklch(0 0 0)",
			Border:              "oklch(0.92 0 0)",
			Ring:                "oklch(0 0 0)",
		},
		Dark: Palette{
			Background:          "oklch(0 0 0)",
			Foreground:          "oklch(1 0 0)",
			Primary:             "oklch(1 0 0)",
			PrimaryForeground:   "oklch(0 0 0)",
			Secondary:           "oklch(0.25 0 0)",
			SecondaryForeground: "oklch(1 0 0)",
			Muted:               "oklch(0.23 0 0)",
			MutedForeground:     "oklch(0.72 0 0)",
			Accent:              "oklch(0.32 0 0)",
			AccentForeground:    "oklch(1 0 0)",
			Border:              "oklch(0.26 0 0)",
			Ring:                "oklch(0.72 0 0)",
		},
	},
	"ocean": {
		Name: "Ocean",
		Light: Palette{
			Background:          "oklch(0.98 0.01 230)",
			Foreground:          "oklch(0.15 0.02 240)",
			Primary:             "oklch(0.55 0.15 240)",
			PrimaryForeground:   "oklch(0.98 0.01 230)",
			Secondary:           "oklch(0.92 0.02 230)",
			SecondaryForeground: "oklch(0.15 0.02 240)",
			Muted:               "oklch(0.95 0.01 230)",
			MutedForeground:     "oklch(0.45 0.03 240)",
			Accent:              "oklch(0.65 0.12 200)",
			AccentForeground:    "oklch(0.15 0.02 240)",
			Border:              "oklch(0.88 0.02 230)",
			Ring:                "oklch(0.55 0.15 240)",
		},
		Dark: Palette{
			Background:          "oklch(0.15 0.02 240)",
			Foreground:          "oklch(0.95 0.01 230)",
			Primary:             "oklch(0.65 0.12 240)",
			PrimaryForeground:   "oklch(0.15 0.02 240)",
			Secondary:           "oklch(0.25 0.03 240)",
			SecondaryForeground: "oklch(0.95 0.01 230)",
			Muted:               "oklch(0.22 0.02 240)",
			MutedForeground:     "oklch(0.65 0.02 230)",
			Accent:              "oklch(0.55 0.10 200)",
			AccentForeground:    "oklch(0.95 0.01 230)",
			Border:              "oklch(0.28 0.02 240)",
			Ring:                "oklch(0.65 0.12 240)",
		},
	},
	"forest": {
		Name: "Forest",
		Light: Palette{
			Background:          "oklch(0.98 0.01 140)",
			Foreground:          "oklch(0.18 0.03 150)",
			Primary:             "oklch(0.45 0.12 150)",
			PrimaryForeground:   "oklch(0.98 0.01 140)",
			Secondary:           "oklch(0.92 0.02 140)",
			SecondaryForeground: "oklch(0.18 0.03 150)",
			Muted:               "oklch(0.95 0.01 140)",
			MutedForeground:     "oklch(0.45 0.03 150)",
			Accent:              "oklch(0.55 0.10 120)",
			AccentForeground:    "oklch(0.18 0.03 150)",
			Border:              "oklch(0.88 0.02 140)",
			Ring:                "oklch(0.45 0.12 150)",
		},
		Dark: Palette{
			Background:          "oklch(0.15 0.02 150)",
			Foreground:          "oklch(0.95 0.01 140)",
			Primary:             "oklch(0.55 0.10 150)",
			PrimaryForeground:   "oklch(0.15 0.02 150)",
			Secondary:           "oklch(0.25 0.02 150)",
			SecondaryForeground: "oklch(0.95 0.01 140)",
			Muted:               "oklch(0.22 0.02 150)",
			MutedForeground:     "oklch(0.65 0.02 140)",
			Accent:              "oklch(0.50 0.08 120)",
			AccentForeground:    "oklch(0.95 0.01 140)",
			Border:              "oklch(0.28 0.02 150)",
			Ring:                "oklch(0.55 0.10 150)",
		},
	},
	"sunset": {
		Name: "Sunset",
		Light: Palette{
			Background:          "oklch(0.99 0.01 50)",
			Foreground:          "oklch(0.18 0.03 30)",
			Primary:             "oklch(0.60 0.18 30)",
			PrimaryForeground:   "oklch(0.99 0.01 50)",
			Secondary:           "oklch(0.94 0.02 50)",
			SecondaryForeground: "oklch(0.18 0.03 30)",
			Muted:               "oklch(0.96 0.01 50)",
			MutedForeground:     "oklch(0.50 0.04 30)",
			Accent:              "oklch(0.70 0.15 60)",
			AccentForeground:    "oklch(0.18 0.03 30)",
			Border:              "oklch(0.90 0.02 50)",
			Ring:                "oklch(0.60 0.18 30)",
		},
		Dark: Palette{
			Background:          "oklch(0.15 0.02 30)",
			Foreground:          "oklch(0.96 0.01 50)",
			Primary:             "oklch(0.70 0.15 30)",
			PrimaryForeground:   "oklch(0.15 0.02 30)",
			Secondary:           "oklch(0.25 0.02 30)",
			SecondaryForeground: "oklch(0.96 0.01 50)",
			Muted:               "oklch(0.22 0.02 30)",
			MutedForeground:     "oklch(0.65 0.02 50)",
			Accent:              "oklch(0.65 0.12 60)",
			AccentForeground:    "oklch(0.96 0.01 50)",
			Border:              "oklch(0.28 0.02 30)",
			Ring:                "oklch(0.70 0.15 30)",
		},
	},
	"lavender": {
		Name: "Lavender",
		Light: Palette{
			Background:          "oklch(0.98 0.01 290)",
			Foreground:          "oklch(0.18 0.03 300)",
			Primary:             "oklch(0.55 0.15 290)",
			PrimaryForeground:   "oklch(0.98 0.01 290)",
			Secondary:           "oklch(0.93 0.02 290)",
			SecondaryForeground: "oklch(0.18 0.03 300)",
			Muted:               "oklch(0.95 0.01 290)",
			MutedForeground:     "oklch(0.48 0.04 300)",
			Accent:              "oklch(0.65 0.12 320)",
			AccentForeground:    "oklch(0.18 0.03 300)",
			Border:              "oklch(0.89 0.02 290)",
			Ring:                "oklch(0.55 0.15 290)",
		},
		Dark: Palette{
			Background:          "oklch(0.15 0.02 300)",
			Foreground:          "oklch(0.95 0.01 290)",
			Primary:             "oklch(0.65 0.12 290)",
			PrimaryForeground:   "oklch(0.15 0.02 300)",
			Secondary:           "oklch(0.25 0.02 300)",
			SecondaryForeground: "oklch(0.95 0.01 290)",
			Muted:               "oklch(0.22 0.02 300)",
			MutedForeground:     "oklch(0.65 0.02 290)",
			Accent:              "oklch(0.58 0.10 320)",
			AccentForeground:    "oklch(0.95 0.01 290)",
			Border:              "oklch(0.28 0.02 300)",
			Ring:                "oklch(0.65 0.12 290)",
		},
	},
}

// DefaultHero is the template's stock hero copy. The hero patcher anchors on
// these exact literals.
var DefaultHero = Hero{
	Kicker:       "Casa Immaginaria",
	Headline:     "Il tuo rifugio urbano",
	Description:  "Tra comfort e stile, scopri un nuovo modo di vivere la città. Rilassati, esplora e sentiti a casa fin dal primo momento.",
	PrimaryCTA:   "Esplora la casa",
	SecondaryCTA: "Scopri esperienze",
}

// DefaultConfiguration returns the configuration a fresh property starts from.
func DefaultConfiguration() *Configuration {
	minimal := PalettePresets["minimal"]
	cfg := &Configuration{
		SchemaVersion: CurrentSchemaVersion,
		Hero:          DefaultHero,
		Fonts:         Fonts{Sans: "Inter", Serif: "Playfair_Display"},
		Palette:       PaletteGroup{Light: minimal.Light, Dark: minimal.Dark},
	}
	cfg.raw, _ = json.Marshal(cfg)
	return cfg
}
