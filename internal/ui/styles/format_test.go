package styles

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestCellSymbol(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"closed", "-", "-"},
		{"mine", "M", "M"},
		{"zero", "0", "·"},
		{"one", "1", "1"},
		{"eight", "8", "8"},
		{"unknown passes through", "?", "?"},
		{"out of range number", "9", "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(CellSymbol(tt.value))
			if got != tt.expected {
				t.Errorf("CellSymbol(%q) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestFormatMineCounter(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected string
	}{
		{"negative count", -1, ""},
		{"no mines", 0, "Total Number of Mines : 0"},
		{"beginner", 10, "Total Number of Mines : 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMineCounter(tt.count)
			if got != tt.expected {
				t.Errorf("FormatMineCounter(%d) = %q, want %q", tt.count, got, tt.expected)
			}
		})
	}
}
