package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/sweeper/internal/frontend"
	"github.com/zjrosen/sweeper/internal/log"
	"github.com/zjrosen/sweeper/internal/minesweeper/application"
	"github.com/zjrosen/sweeper/internal/tracing"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games over an HTTP JSON API",
	Long: `Serve single-player games over HTTP. Games idle for longer than
server.game_ttl are ended and recorded as abandoned.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
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

	store := frontend.NewStore(cfg.Server.GameTTL, cfg.Server.CleanupInterval)
	// Closing the store records every live game, so it must run before
	// the history database closes.
	defer store.Close()

	handler := frontend.NewHandler(store, application.CatalogFromConfig(cfg), cfg.Server.MaxCells, gameOpts...)
	mux := http.NewServeMux()
	handler.RegisterAPIRoutes(mux)

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.CatHTTP, "Listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving games on http://%s (Ctrl+C to stop)\n", addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	log.Info(log.CatHTTP, "Server stopped")
	return nil
}
