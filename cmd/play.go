package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/sweeper/internal/infrastructure/sqlite"
	"github.com/zjrosen/sweeper/internal/log"
	"github.com/zjrosen/sweeper/internal/minesweeper/application"
	"github.com/zjrosen/sweeper/internal/mode/console"
	"github.com/zjrosen/sweeper/internal/mode/game"
	"github.com/zjrosen/sweeper/internal/mode/shared"
	"github.com/zjrosen/sweeper/internal/tracing"
	"github.com/zjrosen/sweeper/internal/ui/styles"
)

var (
	playPlain   bool
	playPreset  string
	playNoMouse bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Play Minesweeper. The full-screen interface is used unless --plain is
given, in which case the game reads commands line by line from stdin.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	addPlayFlags(playCmd)
	rootCmd.AddCommand(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&playPlain, "plain", false, "play the line-oriented console game")
	cmd.Flags().StringVarP(&playPreset, "preset", "p", "", "start with this preset instead of asking")
	cmd.Flags().BoolVar(&playNoMouse, "no-mouse", false, "disable mouse input")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	shutdown, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer flushTraces(shutdown)

	gameOpts, closeHistory, err := historyOptions()
	if err != nil {
		return err
	}
	defer closeHistory()

	session := shared.NewSession(application.CatalogFromConfig(cfg), gameOpts...)
	if playPreset != "" {
		preset, err := session.Catalog().Lookup(playPreset)
		if err != nil {
			return err
		}
		if _, err := session.Choose(ctx, preset); err != nil {
			return err
		}
	}

	if playPlain {
		return console.New(session, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
	}
	return runTUI(ctx, session)
}

func runTUI(ctx context.Context, session *shared.Session) error {
	mouse := cfg.UI.Mouse && !playNoMouse
	model := game.New(ctx, session, game.Options{
		Mouse:           mouse,
		ShowMineCounter: cfg.UI.ShowMineCounter,
		ShowHelp:        cfg.UI.ShowHelp,
		Clipboard:       shared.SystemClipboard{},
	})
	defer model.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)
	watchTheme(p)

	final, err := p.Run()
	// Covers the program being stopped before the player quit.
	if qerr := session.Quit(context.WithoutCancel(ctx)); qerr != nil {
		log.ErrorErr(log.CatUI, "Failed to close session", qerr)
	}
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	if m, ok := final.(game.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// watchTheme re-applies the theme when the config file changes while the
// program runs. Invalid edits are logged and the current theme is kept.
func watchTheme(p *tea.Program) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if err := decodeConfig(); err != nil {
			log.ErrorErr(log.CatConfig, "Ignoring config change", err, "file", e.Name)
			return
		}
		if err := styles.ApplyTheme(themeConfig(cfg.Theme)); err != nil {
			log.ErrorErr(log.CatConfig, "Ignoring theme change", err, "file", e.Name)
			return
		}
		p.Send(game.ThemeChangedMsg{})
	})
	viper.WatchConfig()
}

// historyOptions returns the game options that record finished games, and a
// function closing the history database.
func historyOptions() ([]application.GameOption, func(), error) {
	if !cfg.History.Enabled {
		return nil, func() {}, nil
	}
	db, err := sqlite.NewDB(cfg.HistoryPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.ErrorErr(log.CatDB, "Failed to close history", err)
		}
	}
	return []application.GameOption{application.WithRecorder(db.HistoryRepository())}, closeDB, nil
}

func flushTraces(shutdown tracing.ShutdownFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "Failed to flush traces", err)
	}
}
