package migrations

import (
	"database/sql"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/require"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// openMemoryDB opens an in-memory database pinned to one connection so every
// statement sees the same schema.
func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestRunMigrations_FreshDB(t *testing.T) {
	db := openMemoryDB(t)

	require.NoError(t, RunMigrations(db))
	require.True(t, tableExists(t, db, "games"))

	version, dirty, err := SchemaVersion(db)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)
	require.False(t, dirty)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openMemoryDB(t)

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db), "second run reports no change, not an error")
	require.True(t, tableExists(t, db, "games"))
}

func TestSchemaVersion_Unmigrated(t *testing.T) {
	db := openMemoryDB(t)

	version, dirty, err := SchemaVersion(db)
	require.NoError(t, err)
	require.Zero(t, version)
	require.False(t, dirty)
}

func TestMigrations_Schema(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, RunMigrations(db))

	rows, err := db.Query(`PRAGMA table_info(games)`)
	require.NoError(t, err)
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid         int
			name, typ   string
			notnull, pk int
			dflt        any
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk))
		columns[name] = true
	}
	require.NoError(t, rows.Err())

	for _, col := range []string{
		"id", "guid", "game_id", "preset", "board_rows", "board_cols", "mines",
		"outcome", "opened_cells", "continues", "started_at", "ended_at",
	} {
		require.True(t, columns[col], "column %s should exist", col)
	}

	var indexCount int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name LIKE 'idx_games_%'`).Scan(&indexCount)
	require.NoError(t, err)
	require.Equal(t, 3, indexCount)
}

func TestMigrations_Down(t *testing.T) {
	db := openMemoryDB(t)

	driver, err := WithInstance(db, &Config{})
	require.NoError(t, err)
	source, err := iofs.New(MigrationsFS(), ".")
	require.NoError(t, err)
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	require.NoError(t, err)

	require.NoError(t, m.Up())
	require.True(t, tableExists(t, db, "games"))

	require.NoError(t, m.Down())
	require.False(t, tableExists(t, db, "games"))

	var indexCount int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND tbl_name='games'`).Scan(&indexCount)
	require.NoError(t, err)
	require.Zero(t, indexCount)
}

func TestMigrationsFS_Embedded(t *testing.T) {
	entries, err := embeddedMigrationsFS.ReadDir(".")
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, e := range entries {
		names[e.Name()] = true
	}
	require.True(t, names["000001_create_games.up.sql"])
	require.True(t, names["000001_create_games.down.sql"])

	up, err := embeddedMigrationsFS.ReadFile("000001_create_games.up.sql")
	require.NoError(t, err)
	require.Contains(t, string(up), "CREATE TABLE games")
}

func TestDriver_VersionRoundTrip(t *testing.T) {
	db := openMemoryDB(t)
	d, err := WithInstance(db, &Config{MigrationsTable: "custom_versions"})
	require.NoError(t, err)
	require.True(t, tableExists(t, db, "custom_versions"))

	version, dirty, err := d.Version()
	require.NoError(t, err)
	require.Equal(t, -1, version, "NilVersion before anything is applied")
	require.False(t, dirty)

	require.NoError(t, d.SetVersion(3, true))
	version, dirty, err = d.Version()
	require.NoError(t, err)
	require.Equal(t, 3, version)
	require.True(t, dirty)
}

func TestDriver_Lock(t *testing.T) {
	db := openMemoryDB(t)
	d, err := WithInstance(db, &Config{})
	require.NoError(t, err)

	require.NoError(t, d.Lock())
	require.Error(t, d.Lock(), "second lock must fail")
	require.NoError(t, d.Unlock())
	require.Error(t, d.Unlock(), "unlocking twice must fail")
}

func TestDriver_Drop(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, RunMigrations(db))

	d, err := WithInstance(db, &Config{})
	require.NoError(t, err)
	require.NoError(t, d.Drop())

	require.False(t, tableExists(t, db, "games"))
	require.False(t, tableExists(t, db, DefaultMigrationsTable))
}

func TestWithInstance_NilConfig(t *testing.T) {
	db := openMemoryDB(t)
	_, err := WithInstance(db, nil)
	require.ErrorIs(t, err, ErrNilConfig)
}

func TestGamesTable_OutcomeConstraint(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, RunMigrations(db))

	insert := `INSERT INTO games (guid, game_id, board_rows, board_cols, mines, outcome, started_at, ended_at)
		VALUES (?, ?, 8, 8, 10, ?, 1706000000, 1706000100)`
	_, err := db.Exec(insert, "g-1", "game-1", "won")
	require.NoError(t, err)

	_, err = db.Exec(insert, "g-2", "game-2", "exploded")
	require.Error(t, err, "CHECK constraint rejects unknown outcomes")

	_, err = db.Exec(insert, "g-1", "game-3", "lost")
	require.Error(t, err, "guid is unique")
}
