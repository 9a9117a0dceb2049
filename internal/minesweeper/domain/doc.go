// Package domain implements the minesweeper board engine.
//
// This package follows the same layering rule as the other domain packages:
//   - Contains only pure Go code with standard library imports
//   - Defines the Board aggregate, its Cell entities and the State value object
//   - Implements mine placement, adjacency, cascading opens and win/loss derivation
//   - Has no knowledge of rendering, input handling, storage or transport
//
// # Ownership
//
// A Board owns every Cell in a flat row-major slice. Cells refer to their
// neighbors by Coord, never by pointer, so the neighbor graph carries no
// ownership cycles and every lookup resolves through the Board.
//
// # Concurrency
//
// Board is not safe for concurrent use. Callers that share a Board across
// goroutines must serialize every call behind a single lock; see the
// application package's Game for that wrapper.
//
// # Import Aliasing
//
// There is also a history domain package. When importing both, alias them:
//
//	import (
//	    mines "github.com/zjrosen/sweeper/internal/minesweeper/domain"
//	    history "github.com/zjrosen/sweeper/internal/history/domain"
//	)
package domain
