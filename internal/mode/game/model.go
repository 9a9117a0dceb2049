// Package game is the interactive terminal front end.
//
// The model starts on a preset picker, then shows the board with a movable
// cursor. Cells open with enter or space, with a left click, or by typing
// ":row col". Lost and won boards offer the same commands as the console
// game. All game rules live in shared.Session; this package only maps keys
// and mouse events onto it and renders the result.
package game

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/sweeper/internal/log"
	"github.com/zjrosen/sweeper/internal/minesweeper/domain"
	"github.com/zjrosen/sweeper/internal/mode/shared"
	"github.com/zjrosen/sweeper/internal/ui/boardview"
)

// ThemeChangedMsg asks the model to re-render after styles were re-applied.
type ThemeChangedMsg struct{}

// Options configures the model.
type Options struct {
	Mouse           bool
	ShowMineCounter bool
	ShowHelp        bool
	Clipboard       shared.Clipboard // nil disables copying the board
}

// Model is the bubbletea model of a game session.
type Model struct {
	ctx     context.Context
	session *shared.Session
	zones   *zone.Manager
	keys    KeyMap
	help    help.Model
	input   textinput.Model
	opts    Options

	picked int // picker row
	cursor domain.Coord
	typing bool
	reply  shared.Reply
	err    error

	width  int
	height int
}

// New returns a model driving session.
func New(ctx context.Context, session *shared.Session, opts Options) Model {
	input := textinput.New()
	input.Prompt = ": "
	input.Placeholder = "row col"
	input.CharLimit = 7

	h := help.New()
	h.ShowAll = false

	m := Model{
		ctx:     ctx,
		session: session,
		zones:   zone.New(),
		keys:    DefaultKeyMap(),
		help:    h,
		input:   input,
		opts:    opts,
	}
	def := session.Catalog().Default()
	for i, p := range session.Catalog().Presets() {
		if p.Name == def.Name {
			m.picked = i
		}
	}
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize sets the viewport dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	return m
}

// Close stops the mouse zone worker. Call it after the program exits.
func (m Model) Close() {
	m.zones.Close()
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error { return m.err }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case ThemeChangedMsg:
		log.Debug(log.CatUI, "Theme reloaded")
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.typing {
			return m.handleTyping(msg)
		}
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if key.Matches(msg, m.keys.Copy) && m.session.Phase() != shared.PhaseChoosingMode {
			return m.copyBoard()
		}
		switch m.session.Phase() {
		case shared.PhaseChoosingMode:
			return m.handlePicker(msg)
		case shared.PhasePlaying:
			return m.handlePlaying(msg)
		case shared.PhaseLost:
			return m.handleLost(msg)
		case shared.PhaseWon:
			if key.Matches(msg, m.keys.Restart) {
				m.reply = m.session.Restart()
			}
		}
	}
	return m, nil
}

func (m Model) handlePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	presets := m.session.Catalog().Presets()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.picked > 0 {
			m.picked--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.picked < len(presets)-1 {
			m.picked++
		}
		return m, nil
	case key.Matches(msg, m.keys.Open):
		return m.choose(presets[m.picked].Name)
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		for i, p := range presets {
			if p.Key != "" && strings.EqualFold(p.Key, string(msg.Runes)) {
				m.picked = i
				return m.choose(p.Name)
			}
		}
	}
	return m, nil
}

func (m Model) choose(name string) (tea.Model, tea.Cmd) {
	reply, err := m.session.Handle(m.ctx, name)
	if err != nil {
		return m.fail(err)
	}
	m.reply = reply
	m.cursor = domain.Coord{}
	return m, nil
}

func (m Model) handlePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.session.Game().Snapshot()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor.Row = max(m.cursor.Row-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor.Row = min(m.cursor.Row+1, snap.Rows-1)
	case key.Matches(msg, m.keys.Left):
		m.cursor.Col = max(m.cursor.Col-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.cursor.Col = min(m.cursor.Col+1, snap.Columns-1)
	case key.Matches(msg, m.keys.Open):
		return m.open(m.cursor.Row, m.cursor.Col)
	case key.Matches(msg, m.keys.Type):
		m.typing = true
		m.input.Reset()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) handleTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.typing = false
		m.input.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyEnter:
		m.typing = false
		m.input.Blur()
		text := m.input.Value()
		if shared.IsQuit(text) {
			return m.quit()
		}
		snap := m.session.Game().Snapshot()
		row, col, ok := shared.ParseCoordinates(text, snap.Rows, snap.Columns)
		if !ok {
			m.reply = shared.Reply{Message: shared.WrongInputMessage, Tone: shared.ToneWarning}
			return m, nil
		}
		return m.open(row, col)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleLost(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Continue):
		reply, err := m.session.Continue(m.ctx)
		if err != nil {
			return m.fail(err)
		}
		m.reply = reply
	case key.Matches(msg, m.keys.Restart):
		m.reply = m.session.Restart()
	}
	return m, nil
}

// copyBoard puts the plain-text board on the clipboard.
func (m Model) copyBoard() (tea.Model, tea.Cmd) {
	if m.opts.Clipboard == nil {
		return m, nil
	}
	if err := m.opts.Clipboard.Copy(boardview.RenderPlain(m.session.Game().Snapshot())); err != nil {
		log.ErrorErr(log.CatUI, "Failed to copy board", err)
		m.reply = shared.Reply{Message: "Could not copy the board.", Tone: shared.ToneWarning}
		return m, nil
	}
	m.reply = shared.Reply{Message: "Board copied to clipboard.", Tone: shared.ToneInfo}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.opts.Mouse || m.typing || m.session.Phase() != shared.PhasePlaying {
		return m, nil
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	snap := m.session.Game().Snapshot()
	for row := 0; row < snap.Rows; row++ {
		for col := 0; col < snap.Columns; col++ {
			if z := m.zones.Get(boardview.CellZoneID(row, col)); z != nil && z.InBounds(msg) {
				return m.open(row, col)
			}
		}
	}
	return m, nil
}

func (m Model) open(row, col int) (tea.Model, tea.Cmd) {
	m.cursor = domain.Coord{Row: row, Col: col}
	reply, err := m.session.Open(m.ctx, row, col)
	if err != nil {
		return m.fail(err)
	}
	m.reply = reply
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if err := m.session.Quit(m.ctx); err != nil {
		log.ErrorErr(log.CatUI, "Failed to close game", err)
	}
	return m, tea.Quit
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	log.ErrorErr(log.CatUI, "Game command failed", err)
	m.err = err
	return m.quit()
}
