package domain

import "fmt"

// State is the aggregate status of a board.
type State int

const (
	StatePlaying State = iota
	StateLost
	StateWon
)

var stateNames = map[State]string{
	StatePlaying: "playing",
	StateLost:    "lost",
	StateWon:     "won",
}

// String returns the lower-case name of the state.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// IsTerminal reports whether the state ends play (lost or won).
func (s State) IsTerminal() bool {
	return s == StateLost || s == StateWon
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	name, ok := stateNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown board state %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown board state %q", string(text))
}
