// Package boardview renders a game snapshot as text.
//
// Render draws the styled grid used by the TUI; every cell is wrapped in a
// bubblezone mark so mouse clicks can be mapped back to coordinates.
// RenderPlain draws the framed console board of the line-oriented game.
// Both label rows and columns from 1.
package boardview

import (
	"fmt"
	"strconv"
	"strings"

	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/sweeper/internal/minesweeper/application"
	"github.com/zjrosen/sweeper/internal/minesweeper/domain"
	"github.com/zjrosen/sweeper/internal/ui/styles"
)

const zonePrefix = "cell-"

// CellZoneID returns the bubblezone id of the cell at (row, col), 0-indexed.
func CellZoneID(row, col int) string {
	return fmt.Sprintf("%s%d-%d", zonePrefix, row, col)
}

// ParseCellZoneID is the inverse of CellZoneID.
func ParseCellZoneID(id string) (row, col int, ok bool) {
	rest, found := strings.CutPrefix(id, zonePrefix)
	if !found {
		return 0, 0, false
	}
	r, c, found := strings.Cut(rest, "-")
	if !found {
		return 0, 0, false
	}
	row, err := strconv.Atoi(r)
	if err != nil {
		return 0, 0, false
	}
	col, err = strconv.Atoi(c)
	if err != nil {
		return 0, 0, false
	}
	return row, col, true
}

// Options controls Render.
type Options struct {
	Cursor     domain.Coord
	ShowCursor bool
	Zones      *zone.Manager // nil disables mouse marks
}

// cellWidth is the rendered width of one cell, symbol included.
const cellWidth = 3

// Render draws the styled grid with row and column headers.
func Render(snap application.Snapshot, opts Options) string {
	labelWidth := len(strconv.Itoa(snap.Rows))

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth+1))
	for col := 0; col < snap.Columns; col++ {
		b.WriteString(styles.MutedStyle.Render(center(strconv.Itoa(col+1), cellWidth)))
	}

	for row := 0; row < snap.Rows; row++ {
		b.WriteString("\n")
		b.WriteString(styles.MutedStyle.Render(runewidth.FillLeft(strconv.Itoa(row+1), labelWidth)))
		b.WriteString(" ")
		for col := 0; col < snap.Columns; col++ {
			b.WriteString(renderCell(snap.Cells[row][col], row, col, opts))
		}
	}
	return b.String()
}

func renderCell(value string, row, col int, opts Options) string {
	var cell string
	if opts.ShowCursor && opts.Cursor.Row == row && opts.Cursor.Col == col {
		cell = styles.CursorStyle.Render(center(value, cellWidth))
	} else {
		cell = " " + styles.CellSymbol(value) + " "
	}
	if opts.Zones == nil {
		return cell
	}
	return opts.Zones.Mark(CellZoneID(row, col), cell)
}

// center pads s with spaces to width, extra space going right.
func center(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return runewidth.FillRight(strings.Repeat(" ", left)+s, width)
}

// RenderPlain draws the console board: a title, 1-indexed column numbers
// and a ruled frame around every cell. The mine total follows unless the
// game is lost.
func RenderPlain(snap application.Snapshot) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\n")
	}

	line("")
	line("\t\t\tMinesweeper\n")

	header := "   "
	for col := 0; col < snap.Columns; col++ {
		if col > 9 {
			header += "    " + strconv.Itoa(col+1)
		} else {
			header += "     " + strconv.Itoa(col+1)
		}
	}
	line(header)

	for row := 0; row < snap.Rows; row++ {
		if row == 0 {
			line("     " + strings.Repeat("______", snap.Columns))
		}
		line("     " + strings.Repeat("|     ", snap.Columns) + "|")

		label := "  " + strconv.Itoa(row+1) + "  "
		if row >= 9 {
			label = " " + strconv.Itoa(row+1) + "  "
		}
		var cells strings.Builder
		for col := 0; col < snap.Columns; col++ {
			cells.WriteString("|  " + snap.Cells[row][col] + "  ")
		}
		line(label + cells.String() + "|")

		line("     " + strings.Repeat("|_____", snap.Columns) + "|")
	}

	line("")
	if snap.State != domain.StateLost {
		line(styles.FormatMineCounter(snap.Mines))
	}
	return b.String()
}
