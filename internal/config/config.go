// Package config provides configuration types and defaults for sweeper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Tracing exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// PresetConfig defines a named board size in addition to the built-in ones.
type PresetConfig struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Key     string `mapstructure:"key" yaml:"key"` // single-letter shortcut at the mode prompt
	Rows    int    `mapstructure:"rows" yaml:"rows"`
	Columns int    `mapstructure:"columns" yaml:"columns"`
	Mines   int    `mapstructure:"mines" yaml:"mines"`
}

// Config holds all configuration options for sweeper.
type Config struct {
	DefaultPreset string         `mapstructure:"default_preset"`
	Presets       []PresetConfig `mapstructure:"presets"`
	UI            UIConfig       `mapstructure:"ui"`
	Theme         ThemeConfig    `mapstructure:"theme"`
	History       HistoryConfig  `mapstructure:"history"`
	Server        ServerConfig   `mapstructure:"server"`
	Tracing       TracingConfig  `mapstructure:"tracing"`
	Log           LogConfig      `mapstructure:"log"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	Mouse           bool `mapstructure:"mouse"`
	ShowMineCounter bool `mapstructure:"show_mine_counter"`
	ShowHelp        bool `mapstructure:"show_help"`
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "classic", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Keys use dot notation: "cell.mine", "number.3", etc.
	Colors map[string]string `mapstructure:"colors"`
}

// HistoryConfig controls the finished-game history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // empty uses DefaultHistoryPath
}

// ServerConfig controls `sweeper serve`.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	GameTTL         time.Duration `mapstructure:"game_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	MaxCells        int           `mapstructure:"max_cells"` // largest rows*columns a client may request
}

// TracingConfig selects an OpenTelemetry exporter.
type TracingConfig struct {
	Exporter string `mapstructure:"exporter"`  // none, stdout or otlp
	FilePath string `mapstructure:"file_path"` // stdout exporter target; empty writes to stderr
	Endpoint string `mapstructure:"endpoint"`  // otlp grpc endpoint, host:port
	Insecure bool   `mapstructure:"insecure"`
}

// LogConfig controls the log file.
type LogConfig struct {
	File  string `mapstructure:"file"` // empty disables logging
	Debug bool   `mapstructure:"debug"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DefaultPreset: "beginner",
		UI: UIConfig{
			Mouse:           true,
			ShowMineCounter: true,
			ShowHelp:        true,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			GameTTL:         30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			MaxCells:        10000,
		},
		Tracing: TracingConfig{
			Exporter: ExporterNone,
		},
	}
}

// ValidatePresets checks custom preset definitions. Board feasibility
// (mines < rows*columns) is checked here so a bad config fails at startup
// rather than when the preset is picked.
func ValidatePresets(presets []PresetConfig) error {
	seen := make(map[string]bool)
	for i, p := range presets {
		if p.Name == "" {
			return fmt.Errorf("preset %d: name is required", i)
		}
		if seen[strings.ToLower(p.Name)] {
			return fmt.Errorf("preset %d (%s): duplicate name", i, p.Name)
		}
		seen[strings.ToLower(p.Name)] = true
		if len([]rune(p.Key)) > 1 {
			return fmt.Errorf("preset %d (%s): key must be a single character", i, p.Name)
		}
		if p.Rows <= 0 || p.Columns <= 0 {
			return fmt.Errorf("preset %d (%s): rows and columns must be positive", i, p.Name)
		}
		if p.Mines < 0 || p.Mines >= p.Rows*p.Columns {
			return fmt.Errorf("preset %d (%s): mines must be between 0 and %d", i, p.Name, p.Rows*p.Columns-1)
		}
	}
	return nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidatePresets(c.Presets); err != nil {
		return err
	}
	switch c.Tracing.Exporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing: endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("tracing: unknown exporter %q", c.Tracing.Exporter)
	}
	switch c.Theme.Mode {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme: unknown mode %q", c.Theme.Mode)
	}
	if c.Server.GameTTL < 0 {
		return fmt.Errorf("server: game_ttl must not be negative")
	}
	if c.Server.MaxCells <= 0 {
		return fmt.Errorf("server: max_cells must be positive")
	}
	return nil
}

// DefaultConfigDir returns ~/.config/sweeper (or the platform equivalent).
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".sweeper"
	}
	return filepath.Join(dir, "sweeper")
}

// DefaultHistoryPath returns the history database location used when
// history.path is empty.
func DefaultHistoryPath() string {
	return filepath.Join(DefaultConfigDir(), "history.db")
}

// HistoryPath resolves the configured history path.
func (c Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return DefaultHistoryPath()
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Sweeper Configuration

# Preset used when you press Enter at the mode prompt.
# Built-in presets: beginner (B, 8x8/10), intermediate (I, 12x12/30), expert (E, 16x16/40)
default_preset: beginner

# Extra presets (optional)
# presets:
#   - name: Tiny
#     key: T
#     rows: 5
#     columns: 5
#     mines: 3

# UI settings
ui:
  mouse: true              # Click cells to open them
  show_mine_counter: true  # Show the mine total under the grid
  show_help: true          # Show key help at the bottom

# Theme configuration
theme:
  # Use a preset (run 'sweeper presets --themes' to list them):
  # preset: classic
  #
  # Available presets:
  #   default        - Soft colours, numbers tinted by danger
  #   classic        - The traditional blue/green/red numbers
  #   high-contrast  - High contrast for accessibility
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   cell.mine: "#FF0000"
  #   number.1: "#5FAFFF"

# Finished-game history
history:
  enabled: true
  # path: ~/.config/sweeper/history.db

# HTTP API ('sweeper serve')
server:
  addr: 127.0.0.1:8080
  game_ttl: 30m
  cleanup_interval: 5m
  max_cells: 10000         # Largest board a client may request (rows x columns)

# OpenTelemetry tracing: none, stdout or otlp
tracing:
  exporter: none
  # file_path: /tmp/sweeper-traces.json
  # endpoint: localhost:4317
  # insecure: true

# Logging (the TUI owns the terminal, so logs go to a file)
log:
  # file: /tmp/sweeper.log
  debug: false
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
