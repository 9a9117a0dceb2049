package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	historydomain "github.com/zjrosen/sweeper/internal/history/domain"
)

// gameRepository implements historydomain.Repository on the games table.
type gameRepository struct {
	db *sql.DB
}

func newGameRepository(db *sql.DB) *gameRepository {
	return &gameRepository{db: db}
}

var _ historydomain.Repository = (*gameRepository)(nil)

// Save inserts record and sets its ID. Records are append-only, so saving a
// record that already has an ID is an error.
func (r *gameRepository) Save(record *historydomain.Record) error {
	if record.ID != 0 {
		return fmt.Errorf("game record %s already saved with id %d", record.GUID, record.ID)
	}
	if err := record.Validate(); err != nil {
		return err
	}

	m := toGameRecordModel(record)
	result, err := r.db.Exec(
		`INSERT INTO games (guid, game_id, preset, board_rows, board_cols, mines, outcome, opened_cells, continues, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.GUID, m.GameID, m.Preset, m.Rows, m.Columns, m.Mines, m.Outcome, m.OpenedCells, m.Continues, m.StartedAt, m.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	record.ID = id
	return nil
}

// FindByGUID returns the record with guid, or RecordNotFoundError.
func (r *gameRepository) FindByGUID(guid string) (*historydomain.Record, error) {
	var m GameRecordModel
	err := r.db.QueryRow(`SELECT `+gameColumns+` FROM games WHERE guid = ?`, guid).Scan(m.scanTargets()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &historydomain.RecordNotFoundError{GUID: guid}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find game record: %w", err)
	}
	return m.toDomain(), nil
}

// List returns records matching filter, newest first.
func (r *gameRepository) List(filter historydomain.ListFilter) ([]*historydomain.Record, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE 1 = 1`
	var args []any

	if filter.Outcome != "" {
		query += ` AND outcome = ?`
		args = append(args, string(filter.Outcome))
	}
	if filter.Preset != "" {
		query += ` AND preset = ? COLLATE NOCASE`
		args = append(args, filter.Preset)
	}
	query += ` ORDER BY ended_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list game records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*historydomain.Record
	for rows.Next() {
		var m GameRecordModel
		if err := rows.Scan(m.scanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan game record: %w", err)
		}
		records = append(records, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game records: %w", err)
	}
	return records, nil
}

// CountByOutcome returns how many games ended with each outcome. Outcomes
// with no games are present with a zero count.
func (r *gameRepository) CountByOutcome() (map[historydomain.Outcome]int, error) {
	counts := map[historydomain.Outcome]int{
		historydomain.OutcomeWon:       0,
		historydomain.OutcomeLost:      0,
		historydomain.OutcomeAbandoned: 0,
	}

	rows, err := r.db.Query(`SELECT outcome, COUNT(*) FROM games GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to count game records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("failed to scan outcome count: %w", err)
		}
		counts[historydomain.Outcome(outcome)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outcome counts: %w", err)
	}
	return counts, nil
}

// Close is a no-op; the connection belongs to DB.
func (r *gameRepository) Close() error {
	return nil
}
