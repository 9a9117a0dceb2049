package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadConfigFromYAML is a helper to load config from YAML string on top of the defaults.
func loadConfigFromYAML(t *testing.T, yaml string) Config {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(yaml), 0644)
	require.NoError(t, err)

	v := viper.New()
	v.SetConfigFile(configPath)
	err = v.ReadInConfig()
	require.NoError(t, err)

	cfg := Defaults()
	err = v.Unmarshal(&cfg)
	require.NoError(t, err)

	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "beginner", cfg.DefaultPreset)
	assert.True(t, cfg.UI.Mouse)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Server.GameTTL)
	assert.Equal(t, ExporterNone, cfg.Tracing.Exporter)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigTemplate_LoadsAsDefaults(t *testing.T) {
	cfg := loadConfigFromYAML(t, DefaultConfigTemplate())

	require.NoError(t, cfg.Validate())
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_CustomValues(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
default_preset: expert
presets:
  - name: Tiny
    key: T
    rows: 5
    columns: 5
    mines: 3
ui:
  mouse: false
theme:
  preset: classic
  mode: dark
  colors:
    cell.mine: "#FF0000"
server:
  game_ttl: 10m
tracing:
  exporter: stdout
  file_path: /tmp/traces.json
`)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "expert", cfg.DefaultPreset)
	require.Len(t, cfg.Presets, 1)
	assert.Equal(t, PresetConfig{Name: "Tiny", Key: "T", Rows: 5, Columns: 5, Mines: 3}, cfg.Presets[0])
	assert.False(t, cfg.UI.Mouse)
	assert.True(t, cfg.UI.ShowHelp, "unset keys keep their defaults")
	assert.Equal(t, "classic", cfg.Theme.Preset)
	assert.Equal(t, "#FF0000", cfg.Theme.Colors["cell.mine"])
	assert.Equal(t, 10*time.Minute, cfg.Server.GameTTL)
	assert.Equal(t, ExporterStdout, cfg.Tracing.Exporter)
}

func TestValidatePresets(t *testing.T) {
	tests := []struct {
		name    string
		presets []PresetConfig
		wantErr string
	}{
		{name: "empty", presets: nil},
		{name: "valid", presets: []PresetConfig{{Name: "Tiny", Key: "T", Rows: 5, Columns: 5, Mines: 3}}},
		{name: "zero mines", presets: []PresetConfig{{Name: "Calm", Rows: 1, Columns: 5, Mines: 0}}},
		{name: "missing name", presets: []PresetConfig{{Rows: 5, Columns: 5}}, wantErr: "name is required"},
		{name: "duplicate name", presets: []PresetConfig{{Name: "A", Rows: 2, Columns: 2}, {Name: "a", Rows: 2, Columns: 2}}, wantErr: "duplicate name"},
		{name: "long key", presets: []PresetConfig{{Name: "A", Key: "AB", Rows: 2, Columns: 2}}, wantErr: "single character"},
		{name: "zero rows", presets: []PresetConfig{{Name: "A", Rows: 0, Columns: 2}}, wantErr: "must be positive"},
		{name: "full of mines", presets: []PresetConfig{{Name: "A", Rows: 2, Columns: 2, Mines: 4}}, wantErr: "between 0 and 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePresets(tt.presets)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_Tracing(t *testing.T) {
	cfg := Defaults()
	cfg.Tracing.Exporter = "zipkin"
	require.ErrorContains(t, cfg.Validate(), "unknown exporter")

	cfg.Tracing.Exporter = ExporterOTLP
	require.ErrorContains(t, cfg.Validate(), "endpoint is required")

	cfg.Tracing.Endpoint = "localhost:4317"
	require.NoError(t, cfg.Validate())
}

func TestValidate_ThemeMode(t *testing.T) {
	cfg := Defaults()
	cfg.Theme.Mode = "sepia"
	require.ErrorContains(t, cfg.Validate(), "unknown mode")
}

func TestHistoryPath(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, DefaultHistoryPath(), cfg.HistoryPath())

	cfg.History.Path = "/tmp/h.db"
	assert.Equal(t, "/tmp/h.db", cfg.HistoryPath())
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestValidate_ServerMaxCells(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 10000, cfg.Server.MaxCells)

	cfg.Server.MaxCells = 0
	require.ErrorContains(t, cfg.Validate(), "max_cells must be positive")
}
