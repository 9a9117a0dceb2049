// Package log provides category-tagged structured logging.
//
// The TUI owns stdout, so logs go to a file configured at startup. Until Init
// or SetOutput is called every call is discarded.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Category tags a log line with the subsystem that wrote it.
type Category string

const (
	CatConfig Category = "config"
	CatDB     Category = "db"
	CatGame   Category = "game"
	CatUI     Category = "ui"
	CatHTTP   Category = "http"
	CatTrace  Category = "trace"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init opens (or creates) the log file at path and routes all logging to it.
// The returned function closes the file.
func Init(path string, debug bool) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // G304: path comes from config
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	SetOutput(f, debug)
	return func() error {
		SetOutput(io.Discard, false)
		return f.Close()
	}, nil
}

// SetOutput routes logging to w. Debug lines are kept only when debug is true.
func SetOutput(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	mu.Lock()
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	mu.Unlock()
}

func emit(level slog.Level, cat Category, msg string, kv ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Log(context.Background(), level, msg, append([]any{"cat", string(cat)}, kv...)...)
}

// Debug logs at debug level.
func Debug(cat Category, msg string, kv ...any) { emit(slog.LevelDebug, cat, msg, kv...) }

// Info logs at info level.
func Info(cat Category, msg string, kv ...any) { emit(slog.LevelInfo, cat, msg, kv...) }

// Warn logs at warn level.
func Warn(cat Category, msg string, kv ...any) { emit(slog.LevelWarn, cat, msg, kv...) }

// Error logs at error level.
func Error(cat Category, msg string, kv ...any) { emit(slog.LevelError, cat, msg, kv...) }

// ErrorErr logs at error level with err attached under the "error" key.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	emit(slog.LevelError, cat, msg, append([]any{"error", err}, kv...)...)
}
