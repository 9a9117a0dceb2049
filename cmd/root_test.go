package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	historydomain "github.com/zjrosen/sweeper/internal/history/domain"
	"github.com/zjrosen/sweeper/internal/minesweeper/application"
)

// run executes the root command with args and stdin, returning stdout.
// Package flag variables are reset first since cobra keeps them between runs.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	cfgFile, debug = "", false
	playPlain, playPreset, playNoMouse = false, "", false
	presetsFormat, presetsThemes = "table", false
	historyOutcome, historyPreset, historyLimit, historyFormat = "", "", 20, "table"
	initForce = false

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeConfig writes a config file into a fresh home directory and returns
// its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	path := filepath.Join(home, "config.yaml")
	body += "\nhistory:\n  path: " + filepath.Join(home, "history.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

const tinyConfig = `
default_preset: tiny
presets:
  - name: Tiny
    key: t
    rows: 2
    columns: 3
    mines: 1
`

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, tinyConfig)

	_, err := run(t, "", "presets", "--config", path)
	require.NoError(t, err)

	assert.Equal(t, "tiny", cfg.DefaultPreset)
	require.Len(t, cfg.Presets, 1)
	assert.Equal(t, 3, cfg.Presets[0].Columns)
	assert.True(t, cfg.UI.Mouse, "unset keys keep their defaults")
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, tinyConfig)
	t.Setenv("SWEEPER_DEFAULT_PRESET", "expert")

	out, err := run(t, "", "presets", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "expert", cfg.DefaultPreset)
	assert.Contains(t, out, "*Expert")
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, `
presets:
  - name: Crowded
    rows: 2
    columns: 2
    mines: 4
`)

	_, err := run(t, "", "presets", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := run(t, "", "presets", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestInit_WritesTemplateOnce(t *testing.T) {
	writeConfig(t, "")
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	out, err := run(t, "", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = run(t, "", "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "", "init", "--config", path, "--force")
	require.NoError(t, err)

	// The template itself must load.
	_, err = run(t, "", "presets", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "beginner", cfg.DefaultPreset)
}

func TestPresets_Table(t *testing.T) {
	path := writeConfig(t, tinyConfig)

	out, err := run(t, "", "presets", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Built-in Presets:")
	assert.Contains(t, out, "Beginner      [B]  8x8, 10 mines")
	assert.Contains(t, out, "Custom Presets:")
	assert.Contains(t, out, "*Tiny  [T]  2x3, 1 mines")
}

func TestPresets_JSON(t *testing.T) {
	path := writeConfig(t, tinyConfig)

	out, err := run(t, "", "presets", "--config", path, "--format", "json")
	require.NoError(t, err)

	var presets []application.Preset
	require.NoError(t, json.Unmarshal([]byte(out), &presets))
	require.Len(t, presets, 4)
	assert.Equal(t, application.Preset{Name: "Tiny", Key: "T", Rows: 2, Columns: 3, Mines: 1}, presets[3])
}

func TestPresets_Themes(t *testing.T) {
	path := writeConfig(t, "")

	out, err := run(t, "", "presets", "--config", path, "--themes")
	require.NoError(t, err)
	assert.Contains(t, out, "classic")
	assert.Contains(t, out, "high-contrast")
}

func TestPresets_UnknownFormat(t *testing.T) {
	path := writeConfig(t, "")

	_, err := run(t, "", "presets", "--config", path, "--format", "xml")
	require.Error(t, err)
}

func TestPlayPlain_QuitIsRecorded(t *testing.T) {
	path := writeConfig(t, tinyConfig)

	out, err := run(t, "q\n", "play", "--plain", "--preset", "tiny", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Quit Detected")

	out, err = run(t, "", "history", "--config", path, "--format", "json")
	require.NoError(t, err)
	var records []historydomain.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, historydomain.OutcomeAbandoned, records[0].Outcome)
	assert.Equal(t, "Tiny", records[0].Preset)

	out, err = run(t, "", "history", "stats", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Abandoned:  1")
}

func TestPlayPlain_UnknownPreset(t *testing.T) {
	path := writeConfig(t, "")

	_, err := run(t, "", "play", "--plain", "--preset", "expret", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "Expert"`)
}

func TestHistory_EmptyAndFilters(t *testing.T) {
	path := writeConfig(t, "")

	out, err := run(t, "", "history", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No finished games yet.")

	_, err = run(t, "", "history", "--config", path, "--outcome", "draw")
	require.Error(t, err)
}

func TestRules_Raw(t *testing.T) {
	path := writeConfig(t, "")

	out, err := run(t, "", "rules", "--config", path, "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "Beginner")
}

func TestVersion(t *testing.T) {
	path := writeConfig(t, "")

	out, err := run(t, "", "version", "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "sweeper dev"))
}
