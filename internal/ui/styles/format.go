package styles

import (
	"fmt"
	"strconv"
)

// CellSymbol styles a cell display value: "-" closed, "M" mine, digits by count.
func CellSymbol(value string) string {
	switch value {
	case "-":
		return CellClosedStyle.Render(value)
	case "M":
		return CellMineStyle.Render(value)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || n > 8 {
		return value
	}
	if n == 0 {
		return CellZeroStyle.Render("·")
	}
	return NumberStyles[n].Render(value)
}

// FormatMineCounter returns the mine total line, or "" for a negative count.
func FormatMineCounter(mines int) string {
	if mines < 0 {
		return ""
	}
	return fmt.Sprintf("Total Number of Mines : %d", mines)
}
