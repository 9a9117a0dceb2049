package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

// DefaultMigrationsTable is where the applied version is tracked.
const DefaultMigrationsTable = "schema_migrations"

// ErrNilConfig is returned by WithInstance when config is nil.
var ErrNilConfig = errors.New("no config")

// Config tunes the driver.
type Config struct {
	MigrationsTable string
	NoTxWrap        bool // run each migration outside a transaction
}

// Driver implements database.Driver for a *sql.DB opened with the ncruces
// sqlite driver. Locking is in-process only; the history database has a
// single writer.
type Driver struct {
	db     *sql.DB
	table  string
	noTx   bool
	locked atomic.Bool
}

var _ database.Driver = (*Driver)(nil)

// WithInstance wraps an open connection and makes sure the version table
// exists.
func WithInstance(instance *sql.DB, config *Config) (database.Driver, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if err := instance.Ping(); err != nil {
		return nil, err
	}

	d := &Driver{db: instance, table: config.MigrationsTable, noTx: config.NoTxWrap}
	if d.table == "" {
		d.table = DefaultMigrationsTable
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (version uint64, dirty bool);
CREATE UNIQUE INDEX IF NOT EXISTS version_unique ON %[1]s (version);`, d.table)
	if _, err := instance.Exec(ddl); err != nil {
		return nil, fmt.Errorf("creating %s: %w", d.table, err)
	}
	return d, nil
}

// Open is unsupported; connections come from WithInstance.
func (d *Driver) Open(string) (database.Driver, error) {
	return nil, errors.New("migrations: open a *sql.DB with the ncruces driver and use WithInstance")
}

// Close closes the wrapped connection.
func (d *Driver) Close() error { return d.db.Close() }

// Lock marks a migration as in progress.
func (d *Driver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

// Unlock clears the in-progress mark.
func (d *Driver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

// Run executes one migration file.
func (d *Driver) Run(migration io.Reader) error {
	body, err := io.ReadAll(migration)
	if err != nil {
		return err
	}
	query := string(body)

	if d.noTx {
		if _, err := d.db.Exec(query); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	}
	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(query); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	})
}

// SetVersion replaces the tracked version.
func (d *Driver) SetVersion(version int, dirty bool) error {
	return d.inTx(func(tx *sql.Tx) error {
		del := "DELETE FROM " + d.table //nolint:gosec // table name comes from Config
		if _, err := tx.Exec(del); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(del)}
		}
		// A dirty NilVersion is kept so a failed first down migration stays visible.
		if version < 0 && !(version == database.NilVersion && dirty) {
			return nil
		}
		insert := "INSERT INTO " + d.table + " (version, dirty) VALUES (?, ?)" //nolint:gosec // table name comes from Config
		if _, err := tx.Exec(insert, version, dirty); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(insert)}
		}
		return nil
	})
}

// Version returns the tracked version, or NilVersion when none is recorded.
func (d *Driver) Version() (int, bool, error) {
	var (
		version int
		dirty   bool
	)
	err := d.db.QueryRow("SELECT version, dirty FROM "+d.table+" LIMIT 1").Scan(&version, &dirty)
	if err != nil {
		return database.NilVersion, false, nil
	}
	return version, dirty, nil
}

// Drop removes every table, the version table included.
func (d *Driver) Drop() error {
	names, err := d.tableNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		stmt := "DROP TABLE " + name
		if err := d.inTx(func(tx *sql.Tx) error {
			_, err := tx.Exec(stmt)
			return err
		}); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(stmt)}
		}
	}
	if len(names) == 0 {
		return nil
	}
	if _, err := d.db.Exec("VACUUM"); err != nil {
		return &database.Error{OrigErr: err, Query: []byte("VACUUM")}
	}
	return nil
}

func (d *Driver) tableNames() (names []string, err error) {
	const query = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, &database.Error{OrigErr: err, Query: []byte(query)}
	}
	defer func() { err = errors.Join(err, rows.Close()) }()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// inTx runs fn in a transaction and rolls back if it fails.
func (d *Driver) inTx(fn func(*sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "transaction start failed"}
	}
	if err := fn(tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "transaction commit failed"}
	}
	return nil
}
