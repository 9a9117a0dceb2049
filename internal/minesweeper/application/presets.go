package application

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/zjrosen/sweeper/internal/config"
)

// Preset is a named board size.
type Preset struct {
	Name    string `json:"name" yaml:"name"`
	Key     string `json:"key,omitempty" yaml:"key,omitempty"`
	Rows    int    `json:"rows" yaml:"rows"`
	Columns int    `json:"columns" yaml:"columns"`
	Mines   int    `json:"mines" yaml:"mines"`
}

// String returns "Name (RxC, N mines)".
func (p Preset) String() string {
	return fmt.Sprintf("%s (%dx%d, %d mines)", p.Name, p.Rows, p.Columns, p.Mines)
}

// Built-in presets.
var (
	Beginner     = Preset{Name: "Beginner", Key: "B", Rows: 8, Columns: 8, Mines: 10}
	Intermediate = Preset{Name: "Intermediate", Key: "I", Rows: 12, Columns: 12, Mines: 30}
	Expert       = Preset{Name: "Expert", Key: "E", Rows: 16, Columns: 16, Mines: 40}
)

// BuiltinPresets returns the built-in presets in menu order.
func BuiltinPresets() []Preset {
	return []Preset{Beginner, Intermediate, Expert}
}

// UnknownPresetError is returned by Lookup when no preset matches.
type UnknownPresetError struct {
	Name       string
	Suggestion string // closest preset name, empty if nothing is close
}

func (e *UnknownPresetError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown preset %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown preset %q", e.Name)
}

// Catalog is an ordered set of presets with a default.
type Catalog struct {
	presets  []Preset
	fallback string
}

// NewCatalog returns a catalog of the built-in presets followed by custom.
// A custom preset whose name matches a built-in one replaces it in place.
// defaultName selects the preset used for empty input; empty or unknown
// names fall back to the first preset.
func NewCatalog(defaultName string, custom ...Preset) *Catalog {
	presets := BuiltinPresets()
	for _, p := range custom {
		replaced := false
		for i := range presets {
			if strings.EqualFold(presets[i].Name, p.Name) {
				presets[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			presets = append(presets, p)
		}
	}
	return &Catalog{presets: presets, fallback: defaultName}
}

// CatalogFromConfig builds a catalog from the configured presets.
func CatalogFromConfig(cfg config.Config) *Catalog {
	custom := make([]Preset, 0, len(cfg.Presets))
	for _, p := range cfg.Presets {
		custom = append(custom, Preset{
			Name:    p.Name,
			Key:     strings.ToUpper(p.Key),
			Rows:    p.Rows,
			Columns: p.Columns,
			Mines:   p.Mines,
		})
	}
	return NewCatalog(cfg.DefaultPreset, custom...)
}

// Presets returns a copy of the catalog in menu order.
func (c *Catalog) Presets() []Preset {
	return append([]Preset(nil), c.presets...)
}

// Default returns the preset used when the player makes no choice.
func (c *Catalog) Default() Preset {
	if p, ok := c.find(c.fallback); ok {
		return p
	}
	return c.presets[0]
}

// Lookup finds a preset by name or key, ignoring case. Empty input yields
// the default preset.
func (c *Catalog) Lookup(name string) (Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return c.Default(), nil
	}
	if p, ok := c.find(name); ok {
		return p, nil
	}
	return Preset{}, &UnknownPresetError{Name: name, Suggestion: c.suggest(name)}
}

func (c *Catalog) find(name string) (Preset, bool) {
	if name == "" {
		return Preset{}, false
	}
	for _, p := range c.presets {
		if strings.EqualFold(p.Name, name) || (p.Key != "" && strings.EqualFold(p.Key, name)) {
			return p, true
		}
	}
	return Preset{}, false
}

// suggest returns the preset name closest to name, if it is within a third
// of the name's length in edits.
func (c *Catalog) suggest(name string) string {
	lower := strings.ToLower(name)
	best, bestDist := "", -1
	for _, p := range c.presets {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(p.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = p.Name, d
		}
	}
	if bestDist < 0 || bestDist > max(len(lower)/3, 1) {
		return ""
	}
	return best
}
