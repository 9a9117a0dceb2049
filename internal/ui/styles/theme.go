// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorToken names one themable colour.
type ColorToken string

const (
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextMuted     ColorToken = "text.muted"
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"
	TokenCellClosed    ColorToken = "cell.closed"
	TokenCellZero      ColorToken = "cell.zero"
	TokenCellMine      ColorToken = "cell.mine"
	TokenCellCursor    ColorToken = "cell.cursor"
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"
	TokenNumber1       ColorToken = "number.1"
	TokenNumber2       ColorToken = "number.2"
	TokenNumber3       ColorToken = "number.3"
	TokenNumber4       ColorToken = "number.4"
	TokenNumber5       ColorToken = "number.5"
	TokenNumber6       ColorToken = "number.6"
	TokenNumber7       ColorToken = "number.7"
	TokenNumber8       ColorToken = "number.8"
)

// NumberTokens maps an adjacent-mine count (1..8) to its token; index 0 is unused.
var NumberTokens = [9]ColorToken{
	"", TokenNumber1, TokenNumber2, TokenNumber3, TokenNumber4,
	TokenNumber5, TokenNumber6, TokenNumber7, TokenNumber8,
}

var allTokens = map[ColorToken]bool{
	TokenTextPrimary: true, TokenTextMuted: true,
	TokenBorderDefault: true, TokenBorderFocus: true,
	TokenCellClosed: true, TokenCellZero: true, TokenCellMine: true, TokenCellCursor: true,
	TokenStatusSuccess: true, TokenStatusWarning: true, TokenStatusError: true,
	TokenNumber1: true, TokenNumber2: true, TokenNumber3: true, TokenNumber4: true,
	TokenNumber5: true, TokenNumber6: true, TokenNumber7: true, TokenNumber8: true,
}

// ThemeConfig mirrors config.ThemeConfig without importing it.
type ThemeConfig struct {
	Preset string
	Mode   string
	Colors map[string]string
}

// Preset is a named set of colours.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// DefaultPreset is applied when no preset is configured.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Soft colours, numbers tinted by danger",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#E6E6E6",
		TokenTextMuted:     "#8A8A8A",
		TokenBorderDefault: "#5C5C5C",
		TokenBorderFocus:   "#54A0FF",
		TokenCellClosed:    "#6C6C6C",
		TokenCellZero:      "#3A3A3A",
		TokenCellMine:      "#FF5F5F",
		TokenCellCursor:    "#FFD75F",
		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FFB86C",
		TokenStatusError:   "#FF8787",
		TokenNumber1:       "#87AFFF",
		TokenNumber2:       "#87D787",
		TokenNumber3:       "#FFAF5F",
		TokenNumber4:       "#D787FF",
		TokenNumber5:       "#FF875F",
		TokenNumber6:       "#5FD7D7",
		TokenNumber7:       "#FF5F87",
		TokenNumber8:       "#BCBCBC",
	},
}

// Presets holds every built-in theme by name.
var Presets = map[string]Preset{
	"default": DefaultPreset,
	"classic": {
		Name:        "classic",
		Description: "The traditional blue/green/red numbers",
		Colors: map[ColorToken]string{
			TokenCellClosed: "#C0C0C0",
			TokenCellMine:   "#FF0000",
			TokenNumber1:    "#0000FF",
			TokenNumber2:    "#008000",
			TokenNumber3:    "#FF0000",
			TokenNumber4:    "#000080",
			TokenNumber5:    "#800000",
			TokenNumber6:    "#008080",
			TokenNumber7:    "#000000",
			TokenNumber8:    "#808080",
		},
	},
	"high-contrast": {
		Name:        "high-contrast",
		Description: "High contrast for accessibility",
		Colors: map[ColorToken]string{
			TokenTextPrimary:   "#FFFFFF",
			TokenTextMuted:     "#D0D0D0",
			TokenBorderDefault: "#FFFFFF",
			TokenBorderFocus:   "#FFFF00",
			TokenCellClosed:    "#FFFFFF",
			TokenCellZero:      "#808080",
			TokenCellMine:      "#FF0000",
			TokenCellCursor:    "#FFFF00",
			TokenNumber1:       "#00FFFF",
			TokenNumber2:       "#00FF00",
			TokenNumber3:       "#FF00FF",
			TokenNumber4:       "#FFFF00",
		},
	},
}

// PresetNames returns the preset names sorted alphabetically.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Theme colours, set by ApplyTheme.
var (
	TextPrimaryColor   lipgloss.AdaptiveColor
	TextMutedColor     lipgloss.AdaptiveColor
	BorderDefaultColor lipgloss.AdaptiveColor
	BorderFocusColor   lipgloss.AdaptiveColor
	CellClosedColor    lipgloss.AdaptiveColor
	CellZeroColor      lipgloss.AdaptiveColor
	CellMineColor      lipgloss.AdaptiveColor
	CellCursorColor    lipgloss.AdaptiveColor
	StatusSuccessColor lipgloss.AdaptiveColor
	StatusWarningColor lipgloss.AdaptiveColor
	StatusErrorColor   lipgloss.AdaptiveColor
	NumberColors       [9]lipgloss.AdaptiveColor
)

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func isValidHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

func isValidToken(t ColorToken) bool {
	return allTokens[t]
}

// ApplyTheme resolves the preset and overrides into the package colours and
// rebuilds every style.
func ApplyTheme(cfg ThemeConfig) error {
	colors := make(map[ColorToken]string, len(DefaultPreset.Colors))
	for token, hex := range DefaultPreset.Colors {
		colors[token] = hex
	}

	if cfg.Preset != "" && cfg.Preset != DefaultPreset.Name {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset %q", cfg.Preset)
		}
		for token, hex := range preset.Colors {
			colors[token] = hex
		}
	}

	for key, hex := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token %q", key)
		}
		if !isValidHexColor(hex) {
			return fmt.Errorf("invalid hex color %q for %s", hex, key)
		}
		colors[token] = hex
	}

	switch cfg.Mode {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}

	adaptive := func(token ColorToken) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: colors[token], Dark: colors[token]}
	}
	TextPrimaryColor = adaptive(TokenTextPrimary)
	TextMutedColor = adaptive(TokenTextMuted)
	BorderDefaultColor = adaptive(TokenBorderDefault)
	BorderFocusColor = adaptive(TokenBorderFocus)
	CellClosedColor = adaptive(TokenCellClosed)
	CellZeroColor = adaptive(TokenCellZero)
	CellMineColor = adaptive(TokenCellMine)
	CellCursorColor = adaptive(TokenCellCursor)
	StatusSuccessColor = adaptive(TokenStatusSuccess)
	StatusWarningColor = adaptive(TokenStatusWarning)
	StatusErrorColor = adaptive(TokenStatusError)
	for n := 1; n <= 8; n++ {
		NumberColors[n] = adaptive(NumberTokens[n])
	}

	rebuildStyles()
	return nil
}

// Styles built from the theme colours.
var (
	TitleStyle      lipgloss.Style
	MutedStyle      lipgloss.Style
	CellClosedStyle lipgloss.Style
	CellZeroStyle   lipgloss.Style
	CellMineStyle   lipgloss.Style
	CursorStyle     lipgloss.Style
	WonStyle        lipgloss.Style
	LostStyle       lipgloss.Style
	WarningStyle    lipgloss.Style
	NumberStyles    [9]lipgloss.Style
)

func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	CellClosedStyle = lipgloss.NewStyle().Foreground(CellClosedColor)
	CellZeroStyle = lipgloss.NewStyle().Foreground(CellZeroColor)
	CellMineStyle = lipgloss.NewStyle().Bold(true).Foreground(CellMineColor)
	CursorStyle = lipgloss.NewStyle().Reverse(true).Foreground(CellCursorColor)
	WonStyle = lipgloss.NewStyle().Bold(true).Foreground(StatusSuccessColor)
	LostStyle = lipgloss.NewStyle().Bold(true).Foreground(StatusErrorColor)
	WarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	for n := 1; n <= 8; n++ {
		NumberStyles[n] = lipgloss.NewStyle().Bold(true).Foreground(NumberColors[n])
	}
	NumberStyles[0] = CellZeroStyle
}

func init() {
	// Fixed dark mode at init so importing the package never queries the terminal.
	_ = ApplyTheme(ThemeConfig{Mode: "dark"})
}
