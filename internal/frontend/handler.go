// Package frontend serves single-player games over a JSON HTTP API.
package frontend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/zjrosen/sweeper/internal/log"
	"github.com/zjrosen/sweeper/internal/minesweeper/application"
	"github.com/zjrosen/sweeper/internal/minesweeper/domain"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 64 << 10

// DefaultMaxCells is used when NewHandler is given a non-positive limit.
const DefaultMaxCells = 10000

// Handler provides the game API endpoints.
type Handler struct {
	store    *Store
	catalog  *application.Catalog
	maxCells int
	gameOpts []application.GameOption
}

// NewHandler returns a handler creating games from catalog into store.
// Requests for explicit boards larger than maxCells cells are rejected.
// opts are applied to every new game.
func NewHandler(store *Store, catalog *application.Catalog, maxCells int, opts ...application.GameOption) *Handler {
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	return &Handler{store: store, catalog: catalog, maxCells: maxCells, gameOpts: opts}
}

// RegisterAPIRoutes registers the API routes on the provided mux.
func (h *Handler) RegisterAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/presets", h.ListPresets)

	mux.HandleFunc("POST /api/games", h.CreateGame)
	mux.HandleFunc("GET /api/games/{id}", h.GetGame)
	mux.HandleFunc("POST /api/games/{id}/open", h.OpenCell)
	mux.HandleFunc("POST /api/games/{id}/continue", h.ContinueGame)
	mux.HandleFunc("DELETE /api/games/{id}", h.DeleteGame)
}

// Health returns a simple health check response.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Games: h.store.Len()})
}

// ListPresets returns the board presets.
// GET /api/presets
func (h *Handler) ListPresets(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, PresetsResponse{
		Presets: h.catalog.Presets(),
		Default: h.catalog.Default().Name,
	})
}

// CreateGame starts a game.
// POST /api/games
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if !h.decode(w, r, &req) {
		return
	}

	preset, err := h.presetFor(req)
	if err != nil {
		var unknown *application.UnknownPresetError
		if errors.As(err, &unknown) {
			h.writeError(w, http.StatusBadRequest, "unknown_preset", "Unknown preset", err.Error())
			return
		}
		h.writeError(w, http.StatusBadRequest, "validation_error", err.Error(), "")
		return
	}

	game, err := application.NewGame(preset, h.gameOpts...)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBoard) {
			h.writeError(w, http.StatusBadRequest, "invalid_board", "Invalid board", err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, "create_failed", "Failed to create game", err.Error())
		return
	}
	h.store.Add(game)
	log.Debug(log.CatHTTP, "Game created", "id", game.ID(), "preset", preset.Name)

	w.Header().Set("Location", "/api/games/"+game.ID())
	h.writeJSON(w, http.StatusCreated, game.Snapshot())
}

func (h *Handler) presetFor(req CreateGameRequest) (application.Preset, error) {
	if req.Rows == nil && req.Columns == nil && req.Mines == nil {
		return h.catalog.Lookup(req.Preset)
	}
	if req.Rows == nil || req.Columns == nil || req.Mines == nil {
		return application.Preset{}, errors.New("rows, columns and mines must be given together")
	}
	if req.Preset != "" {
		return application.Preset{}, errors.New("give either a preset or explicit dimensions")
	}
	// Non-positive sizes are left to board construction.
	if *req.Rows > 0 && *req.Columns > 0 && *req.Rows > h.maxCells / *req.Columns {
		return application.Preset{}, fmt.Errorf("board may have at most %d cells", h.maxCells)
	}
	return application.Preset{Rows: *req.Rows, Columns: *req.Columns, Mines: *req.Mines}, nil
}

// GetGame returns the current board.
// GET /api/games/{id}
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, game.Snapshot())
}

// OpenCell opens a cell.
// POST /api/games/{id}/open
func (h *Handler) OpenCell(w http.ResponseWriter, r *http.Request) {
	game, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req OpenCellRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Row == nil || req.Col == nil {
		h.writeError(w, http.StatusBadRequest, "validation_error", "row and col are required", "")
		return
	}

	result, err := game.Open(r.Context(), *req.Row, *req.Col)
	if err != nil {
		h.writeGameError(w, game.ID(), err)
		return
	}
	h.writeJSON(w, http.StatusOK, OpenCellResponse{Result: result, Game: game.Snapshot()})
}

// ContinueGame closes the mines of a lost game so play can go on.
// POST /api/games/{id}/continue
func (h *Handler) ContinueGame(w http.ResponseWriter, r *http.Request) {
	game, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := game.ContinueAfterLoss(r.Context()); err != nil {
		h.writeGameError(w, game.ID(), err)
		return
	}
	h.writeJSON(w, http.StatusOK, game.Snapshot())
}

// DeleteGame ends and records a game.
// DELETE /api/games/{id}
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.store.Delete(id) {
		h.writeError(w, http.StatusNotFound, "not_found", "Game not found", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a size-capped JSON body into v, writing the error response
// when it fails.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "Request body too large", err.Error())
		return false
	}
	h.writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body", err.Error())
	return false
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*application.Game, bool) {
	id := r.PathValue("id")
	game, ok := h.store.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "not_found", "Game not found", id)
		return nil, false
	}
	return game, true
}

func (h *Handler) writeGameError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, domain.ErrOutOfRange):
		h.writeError(w, http.StatusBadRequest, "out_of_range", "Coordinate out of range", err.Error())
	case errors.Is(err, domain.ErrGameOver):
		h.writeError(w, http.StatusConflict, "game_over", "Game is over", err.Error())
	case errors.Is(err, application.ErrNotLost):
		h.writeError(w, http.StatusConflict, "not_lost", "Game is not lost", err.Error())
	case errors.Is(err, application.ErrGameClosed):
		h.writeError(w, http.StatusNotFound, "not_found", "Game not found", id)
	default:
		log.ErrorErr(log.CatHTTP, "Game request failed", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Internal error", err.Error())
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error(log.CatHTTP, "Failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response in the standard APIError format.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, APIError{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
