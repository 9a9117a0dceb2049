package frontend

import (
	"github.com/zjrosen/sweeper/internal/minesweeper/application"
)

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
	Games  int    `json:"games"`
}

// APIError is the body of every error response.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// PresetsResponse is returned by GET /api/presets.
type PresetsResponse struct {
	Presets []application.Preset `json:"presets"`
	Default string               `json:"default"`
}

// CreateGameRequest starts a game from a preset, or from explicit
// dimensions when Rows is set.
type CreateGameRequest struct {
	Preset  string `json:"preset,omitempty"`
	Rows    *int   `json:"rows,omitempty"`
	Columns *int   `json:"columns,omitempty"`
	Mines   *int   `json:"mines,omitempty"`
}

// OpenCellRequest opens a cell. Coordinates are 0-indexed.
type OpenCellRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// OpenCellResponse reports the effect of an open and the resulting board.
type OpenCellResponse struct {
	Result application.OpenResult `json:"result"`
	Game   application.Snapshot   `json:"game"`
}
