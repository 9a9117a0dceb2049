package domain

import "fmt"

// Coord is a zero-indexed grid position.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the coordinate as "(row,col)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// neighborOffsets is the 3x3 window around a cell in row-major order, minus the center.
var neighborOffsets = [8]Coord{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}
