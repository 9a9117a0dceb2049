package domain

import "strconv"

// Display symbols for a cell.
const (
	SymbolClosed = "-"
	SymbolMine   = "M"
)

// Cell is one grid position. Its coordinate is fixed at creation; the open and
// mine flags are only mutated through the owning Board.
type Cell struct {
	coord         Coord
	open          bool
	mine          bool
	neighborMines int
	neighbors     []Coord
}

// NewCell creates a closed, mine-free cell at the given coordinate.
func NewCell(row, col int) Cell {
	return Cell{coord: Coord{Row: row, Col: col}}
}

// Row returns the zero-indexed row.
func (c Cell) Row() int { return c.coord.Row }

// Column returns the zero-indexed column.
func (c Cell) Column() int { return c.coord.Col }

// Coord returns the cell position.
func (c Cell) Coord() Coord { return c.coord }

// IsOpen reports whether the cell has been opened.
func (c Cell) IsOpen() bool { return c.open }

// IsMine reports whether the cell holds a mine.
func (c Cell) IsMine() bool { return c.mine }

// NeighborMineCount returns the number of adjacent mines.
// The value is not meaningful for mine cells.
func (c Cell) NeighborMineCount() int { return c.neighborMines }

// Neighbors returns a copy of the neighbor coordinates.
func (c Cell) Neighbors() []Coord {
	out := make([]Coord, len(c.neighbors))
	copy(out, c.neighbors)
	return out
}

// SetNeighbors replaces the neighbor list.
func (c *Cell) SetNeighbors(neighbors []Coord) {
	c.neighbors = neighbors
}

// DisplayValue returns "-" for a closed cell, "M" for an open mine and the
// adjacent mine count otherwise.
func (c Cell) DisplayValue() string {
	if !c.open {
		return SymbolClosed
	}
	if c.mine {
		return SymbolMine
	}
	return strconv.Itoa(c.neighborMines)
}
