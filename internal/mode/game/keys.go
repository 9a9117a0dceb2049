package game

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the game key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Open     key.Binding
	Type     key.Binding
	Continue key.Binding
	Restart  key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Open:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "open")),
		Type:     key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "type row col")),
		Continue: key.NewBinding(key.WithKeys("c", "C"), key.WithHelp("c", "continue")),
		Restart:  key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "new game")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy board")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// playingKeys narrows the map to the bindings that apply while playing.
type playingKeys struct{ KeyMap }

func (k playingKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Type, k.Help, k.Quit}
}

func (k playingKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Open, k.Type},
		{k.Copy, k.Help, k.Quit},
	}
}

type lostKeys struct{ KeyMap }

func (k lostKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Continue, k.Restart, k.Quit}
}

func (k lostKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Continue, k.Restart, k.Copy, k.Quit}}
}

type wonKeys struct{ KeyMap }

func (k wonKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Quit}
}

func (k wonKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Restart, k.Copy, k.Quit}}
}

type pickerKeys struct{ KeyMap }

func (k pickerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Quit}
}

func (k pickerKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
