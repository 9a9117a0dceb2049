package domain

import (
	"math"
	"math/rand/v2"
)

// Board is a rows x columns minesweeper grid.
type Board struct {
	rows          int
	columns       int
	mineCount     int
	openedNonMine int
	state         State
	cells         []Cell // row-major
	rng           *rand.Rand
}

// NewBoard builds a board with mineCount mines. Mines are placed uniformly at
// random unless WithMines forces a layout.
//
// Returns a ConstructionError when rows or columns are not positive or when
// mineCount is outside [0, rows*columns).
func NewBoard(rows, columns, mineCount int, opts ...Option) (*Board, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := validateShape(rows, columns, mineCount); err != nil {
		return nil, err
	}

	mines := o.mines
	if o.fixed {
		if err := validateMines(rows, columns, mineCount, mines); err != nil {
			return nil, err
		}
	} else {
		mines = randomMines(o.rng, rows, columns, mineCount)
	}

	b := &Board{
		rows:      rows,
		columns:   columns,
		mineCount: mineCount,
		state:     StatePlaying,
		rng:       o.rng,
	}
	b.populate(mines)
	return b, nil
}

// Reset replaces the board with a fresh random one. The new board is fully
// built before it replaces the old state, so a failed Reset leaves the
// board untouched.
func (b *Board) Reset(rows, columns, mineCount int) error {
	fresh, err := NewBoard(rows, columns, mineCount, WithRand(b.rng))
	if err != nil {
		return err
	}
	*b = *fresh
	return nil
}

func validateShape(rows, columns, mineCount int) error {
	switch {
	case rows <= 0:
		return &ConstructionError{Rows: rows, Columns: columns, MineCount: mineCount, Reason: "rows must be positive"}
	case columns <= 0:
		return &ConstructionError{Rows: rows, Columns: columns, MineCount: mineCount, Reason: "columns must be positive"}
	case mineCount < 0:
		return &ConstructionError{Rows: rows, Columns: columns, MineCount: mineCount, Reason: "mine count must not be negative"}
	case rows > math.MaxInt/columns:
		return &ConstructionError{Rows: rows, Columns: columns, MineCount: mineCount, Reason: "too many cells"}
	case mineCount >= rows*columns:
		return &ConstructionError{Rows: rows, Columns: columns, MineCount: mineCount, Reason: "at least one cell must be free of mines"}
	}
	return nil
}

// populate allocates cells, links neighbors, lays mines and counts them.
func (b *Board) populate(mines []Coord) {
	b.cells = make([]Cell, b.rows*b.columns)
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.columns; col++ {
			b.cells[b.index(row, col)] = NewCell(row, col)
		}
	}

	for i := range b.cells {
		cell := &b.cells[i]
		neighbors := make([]Coord, 0, len(neighborOffsets))
		for _, off := range neighborOffsets {
			n := Coord{Row: cell.coord.Row + off.Row, Col: cell.coord.Col + off.Col}
			if b.IsCoordinateInRange(n.Row, n.Col) {
				neighbors = append(neighbors, n)
			}
		}
		cell.SetNeighbors(neighbors)
	}

	for _, m := range mines {
		b.at(m).mine = true
	}
	for _, m := range mines {
		for _, n := range b.at(m).neighbors {
			if neighbor := b.at(n); !neighbor.mine {
				neighbor.neighborMines++
			}
		}
	}
}

func (b *Board) index(row, col int) int {
	return row*b.columns + col
}

func (b *Board) at(c Coord) *Cell {
	return &b.cells[b.index(c.Row, c.Col)]
}

func (b *Board) checkRange(row, col int) error {
	if !b.IsCoordinateInRange(row, col) {
		return &OutOfRangeError{Row: row, Col: col, Rows: b.rows, Columns: b.columns}
	}
	return nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Columns returns the number of columns.
func (b *Board) Columns() int { return b.columns }

// MineCount returns the number of mines on the board.
func (b *Board) MineCount() int { return b.mineCount }

// OpenedNonMineCount returns how many safe cells have been opened.
func (b *Board) OpenedNonMineCount() int { return b.openedNonMine }

// SafeCellCount returns the number of cells without a mine.
func (b *Board) SafeCellCount() int { return b.rows*b.columns - b.mineCount }

// State returns the current board state.
func (b *Board) State() State { return b.state }

// IsCoordinateInRange reports whether (row, col) lies on the board.
func (b *Board) IsCoordinateInRange(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.columns
}

// IsCellOpen reports whether the cell at (row, col) is open.
func (b *Board) IsCellOpen(row, col int) (bool, error) {
	if err := b.checkRange(row, col); err != nil {
		return false, err
	}
	return b.cells[b.index(row, col)].open, nil
}

// Cell returns a copy of the cell at (row, col).
func (b *Board) Cell(row, col int) (Cell, error) {
	if err := b.checkRange(row, col); err != nil {
		return Cell{}, err
	}
	cell := b.cells[b.index(row, col)]
	cell.neighbors = cell.Neighbors()
	return cell, nil
}

// DisplayValue returns the display symbol of the cell at (row, col).
func (b *Board) DisplayValue(row, col int) (string, error) {
	if err := b.checkRange(row, col); err != nil {
		return "", err
	}
	return b.cells[b.index(row, col)].DisplayValue(), nil
}

// DisplayGrid returns every cell's display symbol, row by row.
func (b *Board) DisplayGrid() [][]string {
	grid := make([][]string, b.rows)
	for row := range grid {
		grid[row] = make([]string, b.columns)
		for col := range grid[row] {
			grid[row][col] = b.cells[b.index(row, col)].DisplayValue()
		}
	}
	return grid
}

// OpenCell opens the cell at (row, col).
//
// Opening an open cell does nothing. Opening a mine reveals every mine and
// loses the game. Opening a safe cell with no adjacent mines cascades to its
// safe neighbors until the zero region and its numbered border are open.
// Opening the last safe cell wins the game and stops the cascade.
//
// Returns an OutOfRangeError for coordinates off the board and ErrGameOver
// when a closed cell is opened on a lost or won board.
func (b *Board) OpenCell(row, col int) error {
	if err := b.checkRange(row, col); err != nil {
		return err
	}
	target := &b.cells[b.index(row, col)]
	if target.open {
		return nil
	}
	if b.state.IsTerminal() {
		return ErrGameOver
	}
	if target.mine {
		b.triggerLoss()
		return nil
	}

	// Worklist instead of recursion; the open flag doubles as the visited set.
	stack := []Coord{target.coord}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cell := b.at(c)
		if cell.open || cell.mine {
			continue
		}
		cell.open = true
		b.openedNonMine++

		if b.openedNonMine == b.SafeCellCount() {
			b.state = StateWon
			return nil
		}
		if cell.neighborMines != 0 {
			continue
		}
		for i := len(cell.neighbors) - 1; i >= 0; i-- {
			if next := b.at(cell.neighbors[i]); !next.open && !next.mine {
				stack = append(stack, next.coord)
			}
		}
	}
	return nil
}

// RevealAllMines opens every mine without changing the state.
func (b *Board) RevealAllMines() {
	for i := range b.cells {
		if b.cells[i].mine {
			b.cells[i].open = true
		}
	}
}

// triggerLoss reveals every mine and marks the game lost.
func (b *Board) triggerLoss() {
	b.RevealAllMines()
	b.state = StateLost
}

// CloseAllMines hides every mine again and leaves opened safe cells as they
// are. The state becomes playing, or won if every safe cell is already open.
func (b *Board) CloseAllMines() {
	for i := range b.cells {
		if b.cells[i].mine {
			b.cells[i].open = false
		}
	}
	if b.openedNonMine == b.SafeCellCount() {
		b.state = StateWon
		return
	}
	b.state = StatePlaying
}
