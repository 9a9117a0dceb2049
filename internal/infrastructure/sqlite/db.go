// Package sqlite stores finished games in a local SQLite database.
// It owns the connection lifecycle and migrations and implements the history
// Repository.
package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	historydomain "github.com/zjrosen/sweeper/internal/history/domain"
	"github.com/zjrosen/sweeper/internal/infrastructure/migrations"
	"github.com/zjrosen/sweeper/internal/log"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// pragmas are applied by the driver to every pooled connection.
var pragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(wal)",
	"foreign_keys(on)",
}

// DB is an open history database.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens the history database at path and brings its schema up to
// date. The parent directory is created when missing, and an existing
// database is copied to path+".bak" first.
//
//	db, err := sqlite.NewDB(cfg.HistoryPath())
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.ErrorErr(log.CatDB, "Cannot create history directory", err, "path", path)
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	if err := backup(path); err != nil {
		log.ErrorErr(log.CatDB, "Cannot back up history", err, "path", path)
		return nil, fmt.Errorf("backing up %s: %w", path, err)
	}

	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatDB, "History database unreachable", err, "path", path)
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := migrations.RunMigrations(conn); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatDB, "History migration failed", err, "path", path)
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}

	log.Debug(log.CatDB, "History database ready", "path", path)
	return &DB{conn: conn, path: path}, nil
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

// backup copies an existing database file next to itself. A missing file is
// not an error.
func backup(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: configured history path
	if err != nil {
		return err
	}
	if err := os.WriteFile(path+".bak", data, info.Mode().Perm()); err != nil {
		return err
	}
	log.Debug(log.CatDB, "History backed up", "backup", path+".bak")
	return nil
}

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// HistoryRepository returns a game history repository backed by this
// connection. Closing the repository does not close the DB.
func (db *DB) HistoryRepository() historydomain.Repository {
	return newGameRepository(db.conn)
}

// Connection exposes the pool to tests.
func (db *DB) Connection() *sql.DB {
	return db.conn
}
