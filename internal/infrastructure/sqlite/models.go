package sqlite

import (
	"time"

	historydomain "github.com/zjrosen/sweeper/internal/history/domain"
)

// gameColumns lists the games table columns in scan order.
const gameColumns = `id, guid, game_id, preset, board_rows, board_cols, mines, outcome, opened_cells, continues, started_at, ended_at`

// GameRecordModel is a row of the games table. Times are Unix seconds.
type GameRecordModel struct {
	ID          int64
	GUID        string
	GameID      string
	Preset      *string // nullable, custom boards have no preset
	Rows        int
	Columns     int
	Mines       int
	Outcome     string
	OpenedCells int
	Continues   int
	StartedAt   int64
	EndedAt     int64
}

// scanTargets returns pointers matching gameColumns.
func (m *GameRecordModel) scanTargets() []any {
	return []any{
		&m.ID, &m.GUID, &m.GameID, &m.Preset, &m.Rows, &m.Columns, &m.Mines,
		&m.Outcome, &m.OpenedCells, &m.Continues, &m.StartedAt, &m.EndedAt,
	}
}

func toGameRecordModel(r *historydomain.Record) *GameRecordModel {
	m := &GameRecordModel{
		ID:          r.ID,
		GUID:        r.GUID,
		GameID:      r.GameID,
		Rows:        r.Rows,
		Columns:     r.Columns,
		Mines:       r.Mines,
		Outcome:     string(r.Outcome),
		OpenedCells: r.OpenedCells,
		Continues:   r.Continues,
		StartedAt:   r.StartedAt.Unix(),
		EndedAt:     r.EndedAt.Unix(),
	}
	if r.Preset != "" {
		preset := r.Preset
		m.Preset = &preset
	}
	return m
}

func (m *GameRecordModel) toDomain() *historydomain.Record {
	r := &historydomain.Record{
		ID:          m.ID,
		GUID:        m.GUID,
		GameID:      m.GameID,
		Rows:        m.Rows,
		Columns:     m.Columns,
		Mines:       m.Mines,
		Outcome:     historydomain.Outcome(m.Outcome),
		OpenedCells: m.OpenedCells,
		Continues:   m.Continues,
		StartedAt:   time.Unix(m.StartedAt, 0),
		EndedAt:     time.Unix(m.EndedAt, 0),
	}
	if m.Preset != nil {
		r.Preset = *m.Preset
	}
	return r
}
