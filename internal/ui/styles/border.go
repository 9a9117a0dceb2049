package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderBox draws a rounded border around content with titles embedded in
// the top border. The box is as tall as the content and at least width
// columns wide. Pass "" to omit a title.
func RenderBox(content, leftTitle, rightTitle string, width int, borderColor, titleColor lipgloss.TerminalColor) string {
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor)

	lines := strings.Split(content, "\n")
	innerWidth := max(width-2, 1)
	for _, line := range lines {
		innerWidth = max(innerWidth, lipgloss.Width(line))
	}

	var b strings.Builder
	b.WriteString(buildTopBorder(leftTitle, rightTitle, innerWidth, borderStyle, titleStyle))
	for _, line := range lines {
		pad := innerWidth - lipgloss.Width(line)
		b.WriteString("\n")
		b.WriteString(borderStyle.Render(borderVertical))
		b.WriteString(line)
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(borderStyle.Render(borderVertical))
	}
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return b.String()
}

// buildTopBorder creates the top border with titles on both left and right.
// Format: ╭─ Left ───────── Right ─╮
// Titles that do not fit are truncated, the right one first.
func buildTopBorder(leftTitle, rightTitle string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	plain := borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	if leftTitle == "" && rightTitle == "" {
		return plain
	}

	// "─ " + left + " " ... " " + right + " ─"
	decoration := 0
	if leftTitle != "" {
		decoration += 3
	}
	if rightTitle != "" {
		decoration += 3
	}
	available := innerWidth - decoration - 1
	if available < 1 {
		return plain
	}

	limit := available
	if leftTitle != "" {
		limit = available / 2
	}
	if lipgloss.Width(rightTitle) > limit {
		rightTitle = TruncateString(rightTitle, limit)
	}
	rightWidth := lipgloss.Width(rightTitle)
	leftTitle = TruncateString(leftTitle, available-rightWidth)
	leftWidth := lipgloss.Width(leftTitle)

	var b strings.Builder
	b.WriteString(borderStyle.Render(borderTopLeft))
	used := 0
	if leftTitle != "" {
		b.WriteString(borderStyle.Render(borderHorizontal + " "))
		b.WriteString(titleStyle.Render(leftTitle))
		b.WriteString(borderStyle.Render(" "))
		used += leftWidth + 3
	}
	tail := 0
	if rightTitle != "" {
		tail = rightWidth + 3
	}
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, max(innerWidth-used-tail, 1))))
	if rightTitle != "" {
		b.WriteString(borderStyle.Render(" "))
		b.WriteString(titleStyle.Render(rightTitle))
		b.WriteString(borderStyle.Render(" " + borderHorizontal))
	}
	b.WriteString(borderStyle.Render(borderTopRight))
	return b.String()
}

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
// Truncation never splits a grapheme cluster.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	var result strings.Builder
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if width+w > maxWidth-3 {
			break
		}
		result.WriteString(g.Str())
		width += w
	}
	return result.String() + "..."
}
