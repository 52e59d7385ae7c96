// Package siteconfig defines the builder configuration shape and its
// schema-versioned validator.
package siteconfig

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CurrentSchemaVersion is the only schema version this build understands.
// Validation is discriminated on it: a payload declaring any other version is
// rejected outright, with no coercion and no default filling.
const CurrentSchemaVersion = 1

// Hero holds the hero-section copy.
type Hero struct {
	Kicker       string `json:"kicker"`
	Headline     string `json:"headline"`
	Description  string `json:"description"`
	PrimaryCTA   string `json:"primaryCta"`
	SecondaryCTA string `json:"secondaryCta"`
}

// Fonts holds the Google Fonts import identifiers for the two families.
type Fonts struct {
	Sans  string `json:"sans"`
	Serif string `json:"serif"`
}

// Palette is one mode's set of OKLCH color tokens.
type Palette struct {
	Background          string `json:"background"`
	Foreground          string `json:"foreground"`
	Primary             string `json:"primary"`
	PrimaryForeground   string `json:"primaryForeground"`
	Secondary           string `json:"secondary"`
	SecondaryForeground string `json:"secondaryForeground"`
	Muted               string `json:"muted"`
	MutedForeground     string `json:"mutedForeground"`
	Accent              string `json:"accent"`
	AccentForeground    string `json:"accentForeground"`
	Border              string `json:"border"`
	Ring                string `json:"ring"`
}

// PaletteToken pairs a CSS custom property name with its configured value.
type PaletteToken struct {
	CSSVar string
	Value  string
}

// Tokens returns the palette as ordered CSS custom-property assignments.
func (p Palette) Tokens() []PaletteToken {
	return []PaletteToken{
		{"--background", p.Background},
		{"--foreground", p.Foreground},
		{"--primary", p.Primary},
		{"--primary-foreground", p.PrimaryForeground},
		{"--secondary", p.Secondary},
		{"--secondary-foreground", p.SecondaryForeground},
		{"--muted", p.Muted},
		{"--muted-foreground", p.MutedForeground},
		{"--accent", p.Accent},
		{"--accent-foreground", p.AccentForeground},
		{"--border", p.Border},
		{"--ring", p.Ring},
	}
}

// PaletteGroup is the light and dark palettes together.
type PaletteGroup struct {
	Light Palette `json:"light"`
	Dark  Palette `json:"dark"`
}

// Configuration is a validated builder configuration. It keeps the original
// raw payload so unknown extra fields survive a load/store round-trip.
type Configuration struct {
	SchemaVersion int          `json:"schemaVersion"`
	Hero          Hero         `json:"hero"`
	Fonts         Fonts        `json:"fonts"`
	Palette       PaletteGroup `json:"palette"`

	raw json.RawMessage
}

// Raw returns the original payload the configuration was validated from,
// including fields this schema version does not know about.
func (c *Configuration) Raw() json.RawMessage {
	if c.raw != nil {
		return c.raw
	}
	data, _ := json.Marshal(c)
	return data
}

// ValidationError reports why a payload failed schema validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "configuration invalid: " + e.Reason
	}
	return fmt.Sprintf("configuration invalid: %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Validate checks a raw payload against the schema version it declares and
// returns the typed configuration. Validation is all-or-nothing: any missing
// or wrongly typed required field rejects the whole payload.
func Validate(raw json.RawMessage) (*Configuration, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, invalid("", "payload is not an object")
	}

	versionRaw, ok := fields["schemaVersion"]
	if !ok {
		return nil, invalid("schemaVersion", "missing")
	}
	var version json.Number
	if err := json.Unmarshal(versionRaw, &version); err != nil {
		return nil, invalid("schemaVersion", "must be an integer")
	}
	if strings.ContainsAny(version.String(), ".eE") {
		return nil, invalid("schemaVersion", "must be an integer")
	}
	versionInt, err := version.Int64()
	if err != nil {
		return nil, invalid("schemaVersion", "must be an integer")
	}

	switch versionInt {
	case CurrentSchemaVersion:
		if err := validateV1(fields); err != nil {
			return nil, err
		}
	default:
		return nil, invalid("schemaVersion", fmt.Sprintf("unknown schema version %d", versionInt))
	}

	cfg := &Configuration{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, invalid("", err.Error())
	}
	cfg.raw = append(json.RawMessage(nil), raw...)
	return cfg, nil
}

func validateV1(fields map[string]json.RawMessage) error {
	hero, err := requireObject(fields, "hero")
	if err != nil {
		return err
	}
	for _, key := range []string{"kicker", "headline", "description", "primaryCta", "secondaryCta"} {
		if err := requireString(hero, "hero", key); err != nil {
			return err
		}
	}

	fonts, err := requireObject(fields, "fonts")
	if err != nil {
		return err
	}
	for _, key := range []string{"sans", "serif"} {
		if err := requireString(fonts, "fonts", key); err != nil {
			return err
		}
	}

	palette, err := requireObject(fields, "palette")
	if err != nil {
		return err
	}
	for _, mode := range []string{"light", "dark"} {
		block, err := requireObject(palette, "palette."+mode)
		if err != nil {
			return err
		}
		for _, key := range paletteTokenKeys {
			if err := requireString(block, "palette."+mode, key); err != nil {
				return err
			}
		}
	}
	return nil
}

var paletteTokenKeys = []string{
	"background", "foreground",
	"primary", "primaryForeground",
	"secondary", "secondaryForeground",
	"muted", "mutedForeground",
	"accent", "accentForeground",
	"border", "ring",
}

func requireObject(parent map[string]json.RawMessage, path string) (map[string]json.RawMessage, error) {
	key := path
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		key = path[idx+1:]
	}
	raw, ok := parent[key]
	if !ok {
		return nil, invalid(path, "missing")
	}
	child := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &child); err != nil {
		return nil, invalid(path, "must be an object")
	}
	return child, nil
}

func requireString(parent map[string]json.RawMessage, path, key string) error {
	raw, ok := parent[key]
	if !ok {
		return invalid(path+"."+key, "missing")
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return invalid(path+"."+key, "must be a string")
	}
	return nil
}
