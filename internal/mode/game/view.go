package game

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/sweeper/internal/minesweeper/domain"
	"github.com/zjrosen/sweeper/internal/mode/shared"
	"github.com/zjrosen/sweeper/internal/ui/boardview"
	"github.com/zjrosen/sweeper/internal/ui/styles"
)

const (
	title       = "Minesweeper"
	minBoxWidth = 46
)

// View renders the current screen.
func (m Model) View() string {
	var body string
	switch m.session.Phase() {
	case shared.PhaseQuit:
		return ""
	case shared.PhaseChoosingMode:
		body = m.viewPicker()
	default:
		body = m.viewBoard()
	}
	return m.zones.Scan(body)
}

func (m Model) viewPicker() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString("Choose a board:\n\n")
	for i, p := range m.session.Catalog().Presets() {
		line := fmt.Sprintf("%-14s %dx%d, %d mines", p.Name, p.Rows, p.Columns, p.Mines)
		if p.Key != "" {
			line = fmt.Sprintf("[%s] %s", p.Key, line)
		} else {
			line = "    " + line
		}
		if i == m.picked {
			b.WriteString(styles.CursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString(m.viewMessage())
	b.WriteString(m.viewHelp(pickerKeys{m.keys}))
	return b.String()
}

func (m Model) viewBoard() string {
	snap := m.session.Game().Snapshot()
	phase := m.session.Phase()

	grid := boardview.Render(snap, boardview.Options{
		Cursor:     m.cursor,
		ShowCursor: phase == shared.PhasePlaying,
		Zones:      m.zones,
	})

	borderColor := styles.BorderDefaultColor
	switch snap.State {
	case domain.StateLost:
		borderColor = styles.StatusErrorColor
	case domain.StateWon:
		borderColor = styles.StatusSuccessColor
	}
	status := fmt.Sprintf("%s %d/%d", snap.State, snap.Opened, snap.SafeCells)
	box := styles.RenderBox(grid, title+" · "+snap.Preset, status, max(lipgloss.Width(grid)+2, minBoxWidth), borderColor, styles.TextPrimaryColor)

	var b strings.Builder
	b.WriteString(box)
	b.WriteString("\n")
	if m.opts.ShowMineCounter && snap.State != domain.StateLost {
		b.WriteString(styles.MutedStyle.Render(styles.FormatMineCounter(snap.Mines)))
		b.WriteString("\n")
	}
	b.WriteString(m.viewMessage())
	if m.typing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	switch phase {
	case shared.PhasePlaying:
		b.WriteString(m.viewHelp(playingKeys{m.keys}))
	case shared.PhaseLost:
		b.WriteString(m.viewHelp(lostKeys{m.keys}))
	case shared.PhaseWon:
		b.WriteString(m.viewHelp(wonKeys{m.keys}))
	}
	return b.String()
}

func (m Model) viewMessage() string {
	if m.reply.Message == "" {
		return ""
	}
	msg := m.reply.Message
	if m.width > 0 {
		msg = wordwrap.String(msg, m.width)
	}
	var style lipgloss.Style
	switch m.reply.Tone {
	case shared.ToneWarning:
		style = styles.WarningStyle
	case shared.ToneLost:
		style = styles.LostStyle
	case shared.ToneWon:
		style = styles.WonStyle
	default:
		style = styles.MutedStyle
	}
	return "\n" + style.Render(msg) + "\n"
}

func (m Model) viewHelp(keys help.KeyMap) string {
	if !m.opts.ShowHelp {
		return ""
	}
	return "\n" + m.help.View(keys)
}
