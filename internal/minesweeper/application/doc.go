// Package application coordinates a single minesweeper game.
//
// Game wraps a domain Board behind a mutex, gives it an identity, traces each
// move and reports the finished game to a Recorder. Presets name the board
// sizes offered to players. The presentation layers (console, TUI and HTTP)
// only talk to this package; none of them touch a Board directly.
package application
