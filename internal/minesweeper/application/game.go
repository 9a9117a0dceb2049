package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	historydomain "github.com/zjrosen/sweeper/internal/history/domain"
	"github.com/zjrosen/sweeper/internal/log"
	"github.com/zjrosen/sweeper/internal/minesweeper/domain"
)

const tracerName = "github.com/zjrosen/sweeper/internal/minesweeper/application"

var (
	// ErrNotLost is returned by ContinueAfterLoss when the game is not lost.
	ErrNotLost = errors.New("game is not lost")

	// ErrGameClosed is returned by every mutating call after Close.
	ErrGameClosed = errors.New("game is closed")
)

// OpenResult describes the effect of a single Open.
type OpenResult struct {
	State       domain.State `json:"state"`
	Opened      int          `json:"opened"`       // safe cells opened by this move
	AlreadyOpen bool         `json:"already_open"` // the cell was open before the move
	HitMine     bool         `json:"hit_mine"`
}

// Snapshot is a read-only view of a game for rendering.
type Snapshot struct {
	ID        string       `json:"id"`
	Preset    string       `json:"preset,omitempty"`
	Rows      int          `json:"rows"`
	Columns   int          `json:"columns"`
	Mines     int          `json:"mines"`
	Opened    int          `json:"opened"`
	SafeCells int          `json:"safe_cells"`
	Continues int          `json:"continues"`
	State     domain.State `json:"state"`
	Cells     [][]string   `json:"cells"`
}

// GameOption configures a Game.
type GameOption func(*Game)

// WithRecorder reports finished games to r.
func WithRecorder(r Recorder) GameOption {
	return func(g *Game) { g.recorder = r }
}

// WithClock replaces time.Now for start and end timestamps.
func WithClock(now func() time.Time) GameOption {
	return func(g *Game) { g.now = now }
}

// WithBoardOptions passes opts to every board the game builds.
func WithBoardOptions(opts ...domain.Option) GameOption {
	return func(g *Game) { g.boardOpts = append(g.boardOpts, opts...) }
}

// WithTracer replaces the global tracer.
func WithTracer(t trace.Tracer) GameOption {
	return func(g *Game) { g.tracer = t }
}

// Game is one player's game. It is safe for concurrent use; every call is
// serialized by a single lock so board invariants hold between calls.
type Game struct {
	mu sync.Mutex

	id        string
	preset    Preset
	board     *domain.Board
	startedAt time.Time
	continues int
	recorded  bool
	closed    bool

	recorder  Recorder
	tracer    trace.Tracer
	now       func() time.Time
	boardOpts []domain.Option
}

// NewGame starts a game on a board sized by preset.
func NewGame(preset Preset, opts ...GameOption) (*Game, error) {
	g := &Game{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	if g.tracer == nil {
		g.tracer = otel.Tracer(tracerName)
	}
	board, err := g.newBoard(preset)
	if err != nil {
		return nil, err
	}
	g.start(preset, board)
	return g, nil
}

func (g *Game) newBoard(preset Preset) (*domain.Board, error) {
	return domain.NewBoard(preset.Rows, preset.Columns, preset.Mines, g.boardOpts...)
}

// start installs board as a new game. The caller holds mu (or owns g exclusively).
func (g *Game) start(preset Preset, board *domain.Board) {
	g.id = uuid.NewString()
	g.preset = preset
	g.board = board
	g.startedAt = g.now()
	g.continues = 0
	g.recorded = false
	log.Debug(log.CatGame, "Game started",
		"id", g.id, "preset", preset.Name,
		"rows", preset.Rows, "columns", preset.Columns, "mines", preset.Mines)
}

// ID returns the game's identity. It changes on Restart.
func (g *Game) ID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

// Preset returns the preset the current board was built from.
func (g *Game) Preset() Preset {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.preset
}

// State returns the board state.
func (g *Game) State() domain.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.State()
}

// Open opens the cell at (row, col), 0-indexed.
func (g *Game) Open(ctx context.Context, row, col int) (OpenResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ctx, span := g.tracer.Start(ctx, "game.open", trace.WithAttributes(
		attribute.String("game.id", g.id),
		attribute.Int("cell.row", row),
		attribute.Int("cell.col", col),
	))
	defer span.End()

	if g.closed {
		span.SetStatus(codes.Error, ErrGameClosed.Error())
		return OpenResult{}, ErrGameClosed
	}

	wasOpen, err := g.board.IsCellOpen(row, col)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "out of range")
		return OpenResult{}, err
	}

	before := g.board.State()
	opened := g.board.OpenedNonMineCount()
	if err := g.board.OpenCell(row, col); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return OpenResult{}, err
	}

	result := OpenResult{
		State:       g.board.State(),
		Opened:      g.board.OpenedNonMineCount() - opened,
		AlreadyOpen: wasOpen,
		HitMine:     before == domain.StatePlaying && g.board.State() == domain.StateLost,
	}
	span.SetAttributes(
		attribute.String("game.state", result.State.String()),
		attribute.Int("cells.opened", result.Opened),
	)

	switch {
	case result.HitMine:
		log.Debug(log.CatGame, "Mine opened", "id", g.id, "row", row, "col", col)
	case result.State == domain.StateWon && before != domain.StateWon:
		log.Info(log.CatGame, "Game won", "id", g.id, "continues", g.continues)
		g.finish(ctx, historydomain.OutcomeWon)
	}
	return result, nil
}

// ContinueAfterLoss hides the mines again so a lost game can go on with the
// safe cells opened so far.
func (g *Game) ContinueAfterLoss(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, span := g.tracer.Start(ctx, "game.continue", trace.WithAttributes(attribute.String("game.id", g.id)))
	defer span.End()

	if g.closed {
		return ErrGameClosed
	}
	if g.board.State() != domain.StateLost {
		span.SetStatus(codes.Error, ErrNotLost.Error())
		return ErrNotLost
	}
	g.board.CloseAllMines()
	g.continues++
	span.SetAttributes(attribute.Int("game.continues", g.continues))
	log.Debug(log.CatGame, "Continuing after loss", "id", g.id, "continues", g.continues)
	return nil
}

// RevealMines opens every mine for display without changing the state.
func (g *Game) RevealMines() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.board.RevealAllMines()
}

// Restart records the current game and starts a new one from preset. If the
// new board cannot be built the current game is left as it was.
func (g *Game) Restart(ctx context.Context, preset Preset) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ctx, span := g.tracer.Start(ctx, "game.restart", trace.WithAttributes(
		attribute.String("game.id", g.id),
		attribute.String("preset", preset.Name),
	))
	defer span.End()

	if g.closed {
		return ErrGameClosed
	}
	board, err := g.newBoard(preset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	g.finish(ctx, g.outcome())
	g.start(preset, board)
	return nil
}

// Close records the game. Later calls are no-ops.
func (g *Game) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.finish(ctx, g.outcome())
	g.closed = true
	log.Debug(log.CatGame, "Game closed", "id", g.id)
	return nil
}

// Snapshot returns the current view of the board.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{
		ID:        g.id,
		Preset:    g.preset.Name,
		Rows:      g.board.Rows(),
		Columns:   g.board.Columns(),
		Mines:     g.board.MineCount(),
		Opened:    g.board.OpenedNonMineCount(),
		SafeCells: g.board.SafeCellCount(),
		Continues: g.continues,
		State:     g.board.State(),
		Cells:     g.board.DisplayGrid(),
	}
}

func (g *Game) outcome() historydomain.Outcome {
	switch g.board.State() {
	case domain.StateWon:
		return historydomain.OutcomeWon
	case domain.StateLost:
		return historydomain.OutcomeLost
	default:
		return historydomain.OutcomeAbandoned
	}
}

// finish writes the history record once per game. Recorder failures are
// logged and otherwise ignored.
func (g *Game) finish(ctx context.Context, outcome historydomain.Outcome) {
	if g.recorded {
		return
	}
	g.recorded = true
	if g.recorder == nil {
		return
	}

	record := &historydomain.Record{
		GUID:        uuid.NewString(),
		GameID:      g.id,
		Preset:      g.preset.Name,
		Rows:        g.board.Rows(),
		Columns:     g.board.Columns(),
		Mines:       g.board.MineCount(),
		Outcome:     outcome,
		OpenedCells: g.board.OpenedNonMineCount(),
		Continues:   g.continues,
		StartedAt:   g.startedAt,
		EndedAt:     g.now(),
	}
	trace.SpanFromContext(ctx).AddEvent("game.recorded", trace.WithAttributes(
		attribute.String("outcome", string(outcome)),
	))
	if err := g.recorder.Save(record); err != nil {
		log.ErrorErr(log.CatGame, "Failed to record game", err, "id", g.id, "outcome", outcome)
	}
}
