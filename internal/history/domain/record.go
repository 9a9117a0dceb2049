// Package domain defines the history of finished games.
//
// A Record is written once per game when it ends: won, lost (and not
// continued), or abandoned by a restart or quit. Records are append-only
// and carry no board contents, only the outcome and its context.
package domain

import (
	"fmt"
	"time"
)

// Outcome is how a game ended.
type Outcome string

const (
	OutcomeWon       Outcome = "won"
	OutcomeLost      Outcome = "lost"
	OutcomeAbandoned Outcome = "abandoned"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWon, OutcomeLost, OutcomeAbandoned:
		return true
	}
	return false
}

// Record describes one finished game.
type Record struct {
	ID          int64     `json:"-" yaml:"-"`
	GUID        string    `json:"guid" yaml:"guid"`
	GameID      string    `json:"game_id" yaml:"game_id"`
	Preset      string    `json:"preset,omitempty" yaml:"preset,omitempty"` // empty for custom boards
	Rows        int       `json:"rows" yaml:"rows"`
	Columns     int       `json:"columns" yaml:"columns"`
	Mines       int       `json:"mines" yaml:"mines"`
	Outcome     Outcome   `json:"outcome" yaml:"outcome"`
	OpenedCells int       `json:"opened_cells" yaml:"opened_cells"`
	Continues   int       `json:"continues" yaml:"continues"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	EndedAt     time.Time `json:"ended_at" yaml:"ended_at"`
}

// Validate checks the record before it is stored.
func (r *Record) Validate() error {
	if r.GUID == "" {
		return fmt.Errorf("record guid is required")
	}
	if r.GameID == "" {
		return fmt.Errorf("record %s: game id is required", r.GUID)
	}
	if !r.Outcome.Valid() {
		return fmt.Errorf("record %s: unknown outcome %q", r.GUID, r.Outcome)
	}
	if r.Rows <= 0 || r.Columns <= 0 {
		return fmt.Errorf("record %s: invalid board %dx%d", r.GUID, r.Rows, r.Columns)
	}
	if r.EndedAt.Before(r.StartedAt) {
		return fmt.Errorf("record %s: ended before it started", r.GUID)
	}
	return nil
}

// ListFilter narrows a history listing.
type ListFilter struct {
	Outcome Outcome // empty matches every outcome
	Preset  string  // empty matches every preset
	Limit   int     // zero means no limit
}

// Repository stores and lists game records.
type Repository interface {
	Save(record *Record) error
	FindByGUID(guid string) (*Record, error)
	List(filter ListFilter) ([]*Record, error)
	CountByOutcome() (map[Outcome]int, error)
	Close() error
}
