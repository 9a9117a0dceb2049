// Package cmd implements the sweeper command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/sweeper/internal/config"
	"github.com/zjrosen/sweeper/internal/log"
	"github.com/zjrosen/sweeper/internal/ui/styles"
)

// version is set at build time with -ldflags "-X github.com/zjrosen/sweeper/cmd.version=...".
var version = "dev"

var (
	cfgFile  string
	debug    bool
	cfg      config.Config
	closeLog func() error
)

var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Minesweeper for the terminal",
	Long: `Sweeper is a Minesweeper game for the terminal.

Run without a command to play in the full-screen interface, or use
'sweeper play --plain' for the line-oriented console game.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runPlay,
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Assigned here rather than in the literal: setup reaches rootCmd via
	// loadConfig, which would otherwise be an initialization cycle.
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default ./.sweeper.yaml or ~/.config/sweeper/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	addPlayFlags(rootCmd)
	cobra.OnFinalize(finalize)
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if err := initLogging(); err != nil {
		return err
	}
	if err := styles.ApplyTheme(themeConfig(cfg.Theme)); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}
	log.Debug(log.CatConfig, "Config loaded", "file", viper.ConfigFileUsed(), "command", cmd.Name())
	return nil
}

// loadConfig reads defaults, the config file and SWEEPER_ environment
// variables into cfg. A missing default config file is not an error.
func loadConfig() error {
	setDefaults(viper.GetViper(), config.Defaults())
	_ = viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.SetEnvPrefix("SWEEPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	path, explicit := configPath()
	if _, err := os.Stat(path); explicit || err == nil {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	return decodeConfig()
}

func decodeConfig() error {
	var c config.Config
	if err := viper.Unmarshal(&c); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c
	return nil
}

// configPath returns the --config file, else ./.sweeper.yaml when present,
// else the per-user config file.
func configPath() (path string, explicit bool) {
	if cfgFile != "" {
		return cfgFile, true
	}
	if _, err := os.Stat(".sweeper.yaml"); err == nil {
		return ".sweeper.yaml", false
	}
	return filepath.Join(config.DefaultConfigDir(), "config.yaml"), false
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("default_preset", d.DefaultPreset)
	v.SetDefault("ui.mouse", d.UI.Mouse)
	v.SetDefault("ui.show_mine_counter", d.UI.ShowMineCounter)
	v.SetDefault("ui.show_help", d.UI.ShowHelp)
	v.SetDefault("theme.preset", d.Theme.Preset)
	v.SetDefault("theme.mode", d.Theme.Mode)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.game_ttl", d.Server.GameTTL)
	v.SetDefault("server.cleanup_interval", d.Server.CleanupInterval)
	v.SetDefault("server.max_cells", d.Server.MaxCells)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.debug", d.Log.Debug)
}

// initLogging opens the log file. --debug without a configured file logs to
// debug.log in the config directory.
func initLogging() error {
	path := cfg.Log.File
	if path == "" && cfg.Log.Debug {
		path = filepath.Join(config.DefaultConfigDir(), "debug.log")
	}
	if path == "" || closeLog != nil {
		return nil
	}
	closer, err := log.Init(path, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("initializing log: %w", err)
	}
	closeLog = closer
	return nil
}

func finalize() {
	if closeLog != nil {
		_ = closeLog()
		closeLog = nil
	}
}

func themeConfig(t config.ThemeConfig) styles.ThemeConfig {
	return styles.ThemeConfig{Preset: t.Preset, Mode: t.Mode, Colors: t.Colors}
}
