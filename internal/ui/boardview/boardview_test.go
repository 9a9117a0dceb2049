package boardview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/sweeper/internal/minesweeper/application"
	"github.com/zjrosen/sweeper/internal/minesweeper/domain"
)

// requireSameText fails with a character diff when got differs from want.
func requireSameText(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Fatalf("rendered board mismatch (-want +got):\n%s", dmp.DiffPrettyText(diffs))
}

func tinySnapshot(state domain.State) application.Snapshot {
	return application.Snapshot{
		Rows:    2,
		Columns: 3,
		Mines:   1,
		State:   state,
		Cells: [][]string{
			{"-", "1", "0"},
			{"-", "1", "0"},
		},
	}
}

func TestRenderPlain(t *testing.T) {
	want := strings.Join([]string{
		"",
		"\t\t\tMinesweeper",
		"",
		"        1     2     3",
		"     __________________",
		"     |     |     |     |",
		"  1  |  -  |  1  |  0  |",
		"     |_____|_____|_____|",
		"     |     |     |     |",
		"  2  |  -  |  1  |  0  |",
		"     |_____|_____|_____|",
		"",
		"Total Number of Mines : 1",
		"",
	}, "\n")

	requireSameText(t, want, RenderPlain(tinySnapshot(domain.StatePlaying)))
}

func TestRenderPlain_LostHidesMineTotal(t *testing.T) {
	snap := tinySnapshot(domain.StateLost)
	snap.Cells[0][0] = "M"

	out := RenderPlain(snap)
	require.Contains(t, out, "  1  |  M  |  1  |  0  |")
	require.NotContains(t, out, "Total Number of Mines")
}

func TestRenderPlain_TwoDigitLabels(t *testing.T) {
	snap := application.Snapshot{Rows: 12, Columns: 12, Mines: 30, State: domain.StatePlaying}
	snap.Cells = make([][]string, 12)
	for r := range snap.Cells {
		snap.Cells[r] = strings.Split(strings.Repeat("-", 12), "")
	}

	lines := strings.Split(RenderPlain(snap), "\n")
	require.True(t, strings.HasSuffix(lines[3], "     9     10    11    12"), "header: %q", lines[3])

	var row10 string
	for _, l := range lines {
		if strings.HasPrefix(l, " 10  |") {
			row10 = l
		}
	}
	require.NotEmpty(t, row10, "row 10 label keeps the frame aligned")
	require.Equal(t, len(lines[5]), len(row10))
}

func TestRender_Plain(t *testing.T) {
	out := ansi.Strip(Render(tinySnapshot(domain.StatePlaying), Options{}))

	want := strings.Join([]string{
		"   1  2  3 ",
		"1  -  1  · ",
		"2  -  1  · ",
	}, "\n")
	requireSameText(t, want, out)
}

func TestRender_CursorKeepsLayout(t *testing.T) {
	snap := tinySnapshot(domain.StatePlaying)
	plain := ansi.Strip(Render(snap, Options{}))
	withCursor := ansi.Strip(Render(snap, Options{ShowCursor: true, Cursor: domain.Coord{Row: 1, Col: 0}}))

	require.Equal(t, plain, withCursor)
}

func TestRender_ZonesAreScannedAway(t *testing.T) {
	zones := zone.New()
	t.Cleanup(zones.Close)
	snap := tinySnapshot(domain.StatePlaying)

	marked := Render(snap, Options{Zones: zones})
	require.NotEqual(t, Render(snap, Options{}), marked, "cells carry zone markers")
	require.Equal(t, ansi.Strip(Render(snap, Options{})), ansi.Strip(zones.Scan(marked)))
}

func TestRender_RowLabelsRightAligned(t *testing.T) {
	snap := application.Snapshot{Rows: 10, Columns: 1, Mines: 1, State: domain.StatePlaying}
	snap.Cells = make([][]string, 10)
	for r := range snap.Cells {
		snap.Cells[r] = []string{"-"}
	}

	lines := strings.Split(ansi.Strip(Render(snap, Options{})), "\n")
	require.Len(t, lines, 11)
	require.True(t, strings.HasPrefix(lines[1], " 1 "), "got %q", lines[1])
	require.True(t, strings.HasPrefix(lines[10], "10 "), "got %q", lines[10])
}

func TestCellZoneID_RoundTrip(t *testing.T) {
	row, col, ok := ParseCellZoneID(CellZoneID(12, 3))
	require.True(t, ok)
	require.Equal(t, 12, row)
	require.Equal(t, 3, col)

	for _, id := range []string{"", "cell-", "cell-1", "cell-a-2", "cell-1-b", "row-1-2"} {
		_, _, ok := ParseCellZoneID(id)
		require.False(t, ok, "id %q", id)
	}
}
