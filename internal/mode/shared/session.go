// Package shared holds the interaction rules common to the console and TUI
// front ends.
package shared

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zjrosen/sweeper/internal/log"
	"github.com/zjrosen/sweeper/internal/minesweeper/application"
	"github.com/zjrosen/sweeper/internal/minesweeper/domain"
)

// Player-facing messages and prompts.
const (
	WrongInputMessage   = "****** Wrong input! ******"
	AlreadyOpenMessage  = "Chosen cell is already Open, please enter a non-open Cell!"
	LostMessage         = "Sorry, You opened a Mine and Lost!"
	WonMessage          = "Congrats, You Won!!!"
	InstructionsMessage = `Enter row and column number to select a cell, Example "2 3". ` +
		"After entering that Cell will be opened. You can enter Q at any prompt to quit"

	ChooseModePrompt  = "Please choose a game mode. Empty Enter for default, Enter B for beginner, I for intermediate and E for expert, to quit enter Q: "
	RequestCellPrompt = "Enter row and column numbers with a space in between ( example: 1 1), to quit enter Q :  "
	LostPrompt        = "Enter C to continue where you were left, R to start a completely new game or Q to quit:  "
	WonPrompt         = "Enter R to start a completely new game or Q to quit: "
)

// Phase is where the player is in the session.
type Phase int

const (
	PhaseChoosingMode Phase = iota
	PhasePlaying
	PhaseLost
	PhaseWon
	PhaseQuit
)

func (p Phase) String() string {
	switch p {
	case PhaseChoosingMode:
		return "choosing-mode"
	case PhasePlaying:
		return "playing"
	case PhaseLost:
		return "lost"
	case PhaseWon:
		return "won"
	case PhaseQuit:
		return "quit"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Tone classifies a Reply for styling.
type Tone int

const (
	ToneNone Tone = iota
	ToneInfo
	ToneWarning
	ToneLost
	ToneWon
)

// Reply is what the session tells the player after an input.
type Reply struct {
	Message string
	Tone    Tone
}

func wrongInput() Reply { return Reply{Message: WrongInputMessage, Tone: ToneWarning} }

// IsQuit reports whether input is the quit command.
func IsQuit(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), "Q")
}

// ParseCoordinates reads "row col", 1-indexed, and returns 0-indexed
// coordinates. ok is false for anything but two integers on the board.
func ParseCoordinates(input string, rows, columns int) (row, col int, ok bool) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return 0, 0, false
	}
	r, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, false
	}
	c, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}
	row, col = r-1, c-1
	if row < 0 || row >= rows || col < 0 || col >= columns {
		return 0, 0, false
	}
	return row, col, true
}

// Session drives one player through mode choice, play, and the lost and won
// prompts. It is shared by the console and TUI front ends and is not safe
// for concurrent use.
type Session struct {
	catalog  *application.Catalog
	gameOpts []application.GameOption
	game     *application.Game
	phase    Phase
}

// NewSession starts in PhaseChoosingMode. opts are applied to every game.
func NewSession(catalog *application.Catalog, opts ...application.GameOption) *Session {
	return &Session{catalog: catalog, gameOpts: opts}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Catalog returns the presets offered at mode choice.
func (s *Session) Catalog() *application.Catalog { return s.catalog }

// Game returns the current game, or nil before the first mode choice.
func (s *Session) Game() *application.Game { return s.game }

// Prompt returns the prompt for the current phase.
func (s *Session) Prompt() string {
	switch s.phase {
	case PhaseChoosingMode:
		return ChooseModePrompt
	case PhasePlaying:
		return RequestCellPrompt
	case PhaseLost:
		return LostPrompt
	case PhaseWon:
		return WonPrompt
	}
	return ""
}

// Handle applies one line of player input.
func (s *Session) Handle(ctx context.Context, input string) (Reply, error) {
	if IsQuit(input) {
		return Reply{}, s.Quit(ctx)
	}

	switch s.phase {
	case PhaseChoosingMode:
		preset, err := s.catalog.Lookup(strings.TrimSpace(input))
		if err != nil {
			var unknown *application.UnknownPresetError
			if errors.As(err, &unknown) && unknown.Suggestion != "" {
				return Reply{Message: fmt.Sprintf("%s Did you mean %s?", WrongInputMessage, unknown.Suggestion), Tone: ToneWarning}, nil
			}
			return wrongInput(), nil
		}
		return s.Choose(ctx, preset)

	case PhasePlaying:
		snap := s.game.Snapshot()
		row, col, ok := ParseCoordinates(input, snap.Rows, snap.Columns)
		if !ok {
			return wrongInput(), nil
		}
		return s.Open(ctx, row, col)

	case PhaseLost:
		switch strings.ToUpper(strings.TrimSpace(input)) {
		case "C":
			return s.Continue(ctx)
		case "R":
			return s.Restart(), nil
		}
		return wrongInput(), nil

	case PhaseWon:
		if strings.EqualFold(strings.TrimSpace(input), "R") {
			return s.Restart(), nil
		}
		return wrongInput(), nil
	}
	return Reply{}, nil
}

// Choose starts a game with preset. A previous game is recorded and replaced.
func (s *Session) Choose(ctx context.Context, preset application.Preset) (Reply, error) {
	if s.phase != PhaseChoosingMode {
		return wrongInput(), nil
	}
	if s.game == nil {
		game, err := application.NewGame(preset, s.gameOpts...)
		if err != nil {
			return Reply{}, fmt.Errorf("starting %s game: %w", preset.Name, err)
		}
		s.game = game
	} else if err := s.game.Restart(ctx, preset); err != nil {
		return Reply{}, fmt.Errorf("starting %s game: %w", preset.Name, err)
	}
	s.phase = PhasePlaying
	log.Debug(log.CatUI, "Mode chosen", "preset", preset.Name)
	return Reply{Message: InstructionsMessage, Tone: ToneInfo}, nil
}

// Open opens a cell, 0-indexed. Out of range input is a wrong input.
func (s *Session) Open(ctx context.Context, row, col int) (Reply, error) {
	if s.phase != PhasePlaying {
		return wrongInput(), nil
	}
	result, err := s.game.Open(ctx, row, col)
	if errors.Is(err, domain.ErrOutOfRange) {
		return wrongInput(), nil
	}
	if err != nil {
		return Reply{}, err
	}

	switch {
	case result.AlreadyOpen:
		return Reply{Message: AlreadyOpenMessage, Tone: ToneWarning}, nil
	case result.State == domain.StateLost:
		s.phase = PhaseLost
		return Reply{Message: LostMessage, Tone: ToneLost}, nil
	case result.State == domain.StateWon:
		s.game.RevealMines()
		s.phase = PhaseWon
		return Reply{Message: WonMessage, Tone: ToneWon}, nil
	}
	return Reply{}, nil
}

// Continue resumes a lost game with its mines closed again.
func (s *Session) Continue(ctx context.Context) (Reply, error) {
	if s.phase != PhaseLost {
		return wrongInput(), nil
	}
	if err := s.game.ContinueAfterLoss(ctx); err != nil {
		return Reply{}, err
	}
	s.phase = PhasePlaying
	return Reply{}, nil
}

// Restart returns to mode choice. The finished game is recorded when the
// next one starts or the session quits.
func (s *Session) Restart() Reply {
	if s.phase == PhaseLost || s.phase == PhaseWon {
		s.phase = PhaseChoosingMode
		return Reply{}
	}
	return wrongInput()
}

// Quit ends the session and records the current game.
func (s *Session) Quit(ctx context.Context) error {
	s.phase = PhaseQuit
	if s.game == nil {
		return nil
	}
	return s.game.Close(ctx)
}
