package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBoard is matched by every ConstructionError.
	ErrInvalidBoard = errors.New("invalid board")

	// ErrOutOfRange is matched by every OutOfRangeError.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrGameOver indicates a cell was opened on a board that is already lost or won.
	ErrGameOver = errors.New("game is over")
)

// ConstructionError indicates the requested board dimensions or mine count
// cannot produce a playable board.
type ConstructionError struct {
	Rows      int
	Columns   int
	MineCount int
	Reason    string
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("invalid board %dx%d with %d mines: %s", e.Rows, e.Columns, e.MineCount, e.Reason)
}

// Is reports whether target is ErrInvalidBoard.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrInvalidBoard
}

// OutOfRangeError indicates a coordinate outside the board was passed to a
// coordinate-taking operation.
type OutOfRangeError struct {
	Row     int
	Col     int
	Rows    int
	Columns int
}

// Error implements the error interface.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("coordinate (%d,%d) out of range for %dx%d board", e.Row, e.Col, e.Rows, e.Columns)
}

// Is reports whether target is ErrOutOfRange.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
