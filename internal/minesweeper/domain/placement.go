package domain

import (
	"fmt"
	"math/rand/v2"
)

// Option configures board construction.
type Option func(*options)

type options struct {
	rng   *rand.Rand
	mines []Coord
	fixed bool
}

// WithRand makes mine placement draw from rng instead of the global source.
// A seeded generator gives reproducible boards.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithMines places mines exactly at the given coordinates. The number of
// coordinates must equal the requested mine count and they must be distinct
// and in range.
func WithMines(coords ...Coord) Option {
	return func(o *options) {
		o.mines = append([]Coord(nil), coords...)
		o.fixed = true
	}
}

// randomMines chooses mineCount distinct cells uniformly without replacement.
func randomMines(rng *rand.Rand, rows, columns, mineCount int) []Coord {
	perm := rand.Perm
	if rng != nil {
		perm = rng.Perm
	}
	indices := perm(rows * columns)[:mineCount]

	mines := make([]Coord, 0, mineCount)
	for _, idx := range indices {
		mines = append(mines, Coord{Row: idx / columns, Col: idx % columns})
	}
	return mines
}

// validateMines checks a forced mine layout against the board shape.
func validateMines(rows, columns, mineCount int, mines []Coord) error {
	if len(mines) != mineCount {
		return &ConstructionError{
			Rows: rows, Columns: columns, MineCount: mineCount,
			Reason: fmt.Sprintf("%d mine positions given", len(mines)),
		}
	}
	seen := make(map[Coord]struct{}, len(mines))
	for _, c := range mines {
		if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= columns {
			return &ConstructionError{
				Rows: rows, Columns: columns, MineCount: mineCount,
				Reason: fmt.Sprintf("mine %s outside the grid", c),
			}
		}
		if _, dup := seen[c]; dup {
			return &ConstructionError{
				Rows: rows, Columns: columns, MineCount: mineCount,
				Reason: fmt.Sprintf("mine %s given twice", c),
			}
		}
		seen[c] = struct{}{}
	}
	return nil
}
