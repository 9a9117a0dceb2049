package application

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	historydomain "github.com/zjrosen/sweeper/internal/history/domain"
	"github.com/zjrosen/sweeper/internal/minesweeper/domain"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Save(record *historydomain.Record) error {
	args := m.Called(record)
	return args.Error(0)
}

// tinyPreset lays out (mine at 0,0):
//
//	M 1 0
//	1 1 0
var tinyPreset = Preset{Name: "Tiny", Rows: 2, Columns: 3, Mines: 1}

var fixedStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTinyGame(t *testing.T, opts ...GameOption) *Game {
	t.Helper()
	opts = append([]GameOption{
		WithBoardOptions(domain.WithMines(domain.Coord{Row: 0, Col: 0})),
		WithClock(func() time.Time { return fixedStart }),
	}, opts...)
	g, err := NewGame(tinyPreset, opts...)
	require.NoError(t, err)
	return g
}

func outcomeIs(outcome historydomain.Outcome) any {
	return mock.MatchedBy(func(r *historydomain.Record) bool {
		return r.Outcome == outcome
	})
}

func TestNewGame_InvalidPreset(t *testing.T) {
	_, err := NewGame(Preset{Name: "Broken", Rows: 2, Columns: 2, Mines: 4})
	require.ErrorIs(t, err, domain.ErrInvalidBoard)
}

func TestNewGame_Snapshot(t *testing.T) {
	g := newTinyGame(t)

	snap := g.Snapshot()
	require.NotEmpty(t, snap.ID)
	require.Equal(t, g.ID(), snap.ID)
	require.Equal(t, "Tiny", snap.Preset)
	require.Equal(t, 2, snap.Rows)
	require.Equal(t, 3, snap.Columns)
	require.Equal(t, 1, snap.Mines)
	require.Equal(t, 5, snap.SafeCells)
	require.Equal(t, domain.StatePlaying, snap.State)
	require.Equal(t, [][]string{{"-", "-", "-"}, {"-", "-", "-"}}, snap.Cells)
}

func TestGame_OpenCascadeThenWin(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("Save", mock.MatchedBy(func(r *historydomain.Record) bool {
		return r.Outcome == historydomain.OutcomeWon &&
			r.OpenedCells == 5 &&
			r.Preset == "Tiny" &&
			r.Continues == 0 &&
			r.StartedAt.Equal(fixedStart)
	})).Return(nil).Once()
	g := newTinyGame(t, WithRecorder(rec))

	result, err := g.Open(context.Background(), 0, 2)
	require.NoError(t, err)
	require.Equal(t, 4, result.Opened)
	require.Equal(t, domain.StatePlaying, result.State)
	require.False(t, result.HitMine)

	result, err = g.Open(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Equal(t, 1, result.Opened)
	require.Equal(t, domain.StateWon, result.State)

	// Closing a won game does not record it twice.
	require.NoError(t, g.Close(context.Background()))
	rec.AssertExpectations(t)
}

func TestGame_OpenAlreadyOpen(t *testing.T) {
	g := newTinyGame(t)

	_, err := g.Open(context.Background(), 0, 1)
	require.NoError(t, err)

	result, err := g.Open(context.Background(), 0, 1)
	require.NoError(t, err)
	require.True(t, result.AlreadyOpen)
	require.Zero(t, result.Opened)
}

func TestGame_OpenOutOfRange(t *testing.T) {
	g := newTinyGame(t)

	_, err := g.Open(context.Background(), 2, 0)
	require.ErrorIs(t, err, domain.ErrOutOfRange)
	require.Equal(t, domain.StatePlaying, g.State())
}

func TestGame_HitMineThenContinue(t *testing.T) {
	g := newTinyGame(t)
	ctx := context.Background()

	_, err := g.Open(ctx, 1, 1)
	require.NoError(t, err)

	result, err := g.Open(ctx, 0, 0)
	require.NoError(t, err)
	require.True(t, result.HitMine)
	require.Equal(t, domain.StateLost, result.State)
	require.Equal(t, "M", g.Snapshot().Cells[0][0])

	_, err = g.Open(ctx, 1, 0)
	require.ErrorIs(t, err, domain.ErrGameOver)

	require.NoError(t, g.ContinueAfterLoss(ctx))
	snap := g.Snapshot()
	require.Equal(t, domain.StatePlaying, snap.State)
	require.Equal(t, "-", snap.Cells[0][0])
	require.Equal(t, "1", snap.Cells[1][1], "progress survives the continue")
	require.Equal(t, 1, snap.Continues)
}

func TestGame_ContinueRequiresLoss(t *testing.T) {
	g := newTinyGame(t)
	require.ErrorIs(t, g.ContinueAfterLoss(context.Background()), ErrNotLost)
}

func TestGame_RevealMinesKeepsState(t *testing.T) {
	g := newTinyGame(t)
	ctx := context.Background()
	_, _ = g.Open(ctx, 0, 2)
	_, _ = g.Open(ctx, 1, 0)
	require.Equal(t, domain.StateWon, g.State())

	g.RevealMines()
	snap := g.Snapshot()
	require.Equal(t, "M", snap.Cells[0][0])
	require.Equal(t, domain.StateWon, snap.State)
}

func TestGame_RestartRecordsAndStartsFresh(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("Save", outcomeIs(historydomain.OutcomeLost)).Return(nil).Once()
	rec.On("Save", outcomeIs(historydomain.OutcomeAbandoned)).Return(nil).Once()
	g := newTinyGame(t, WithRecorder(rec))
	ctx := context.Background()

	firstID := g.ID()
	_, err := g.Open(ctx, 0, 0)
	require.NoError(t, err)

	require.NoError(t, g.Restart(ctx, tinyPreset))
	require.NotEqual(t, firstID, g.ID())
	snap := g.Snapshot()
	require.Equal(t, domain.StatePlaying, snap.State)
	require.Zero(t, snap.Opened)

	require.NoError(t, g.Close(ctx))
	rec.AssertExpectations(t)
}

func TestGame_RestartDrawsOneBoardFromTheSeed(t *testing.T) {
	preset := Preset{Name: "Seeded", Rows: 6, Columns: 6, Mines: 8}
	g, err := NewGame(preset, WithBoardOptions(domain.WithRand(rand.New(rand.NewPCG(7, 11)))))
	require.NoError(t, err)
	require.NoError(t, g.Restart(context.Background(), preset))
	g.RevealMines()

	// The same seed drawn twice directly: the restarted game must match the second board.
	rng := rand.New(rand.NewPCG(7, 11))
	_, err = domain.NewBoard(6, 6, 8, domain.WithRand(rng))
	require.NoError(t, err)
	want, err := domain.NewBoard(6, 6, 8, domain.WithRand(rng))
	require.NoError(t, err)
	want.RevealAllMines()

	require.Equal(t, want.DisplayGrid(), g.Snapshot().Cells)
}

func TestGame_RestartInvalidPresetKeepsGame(t *testing.T) {
	rec := &mockRecorder{}
	g := newTinyGame(t, WithRecorder(rec))
	id := g.ID()

	err := g.Restart(context.Background(), Preset{Name: "Bad", Rows: 0, Columns: 3, Mines: 1})
	require.ErrorIs(t, err, domain.ErrInvalidBoard)
	require.Equal(t, id, g.ID())
	rec.AssertNotCalled(t, "Save", mock.Anything)
}

func TestGame_CloseIsIdempotent(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("Save", outcomeIs(historydomain.OutcomeAbandoned)).Return(nil).Once()
	g := newTinyGame(t, WithRecorder(rec))
	ctx := context.Background()

	require.NoError(t, g.Close(ctx))
	require.NoError(t, g.Close(ctx))

	_, err := g.Open(ctx, 0, 2)
	require.ErrorIs(t, err, ErrGameClosed)
	require.ErrorIs(t, g.Restart(ctx, tinyPreset), ErrGameClosed)
	rec.AssertExpectations(t)
}

func TestGame_RecorderFailureDoesNotBreakPlay(t *testing.T) {
	rec := RecorderFunc(func(*historydomain.Record) error {
		return errors.New("disk full")
	})
	g := newTinyGame(t, WithRecorder(rec))
	ctx := context.Background()

	_, err := g.Open(ctx, 0, 2)
	require.NoError(t, err)
	result, err := g.Open(ctx, 1, 0)
	require.NoError(t, err)
	require.Equal(t, domain.StateWon, result.State)
}

func TestGame_OpenIsTraced(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	g := newTinyGame(t, WithTracer(tp.Tracer("test")))
	_, err := g.Open(context.Background(), 0, 2)
	require.NoError(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "game.open", ended[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	require.Equal(t, g.ID(), attrs["game.id"].AsString())
	require.Equal(t, int64(0), attrs["cell.row"].AsInt64())
	require.Equal(t, int64(2), attrs["cell.col"].AsInt64())
	require.Equal(t, "playing", attrs["game.state"].AsString())
	require.Equal(t, int64(4), attrs["cells.opened"].AsInt64())
}

func TestGame_ConcurrentOpens(t *testing.T) {
	g, err := NewGame(Expert)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for row := 0; row < Expert.Rows; row++ {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			for col := 0; col < Expert.Columns; col++ {
				_, _ = g.Open(context.Background(), row, col)
			}
		}(row)
	}
	wg.Wait()

	snap := g.Snapshot()
	require.LessOrEqual(t, snap.Opened, snap.SafeCells)
}
