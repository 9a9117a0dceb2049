// Package rules holds the player-facing rules text.
package rules

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
)

//go:embed rules.md
var markdown string

// Markdown returns the rules as raw markdown.
func Markdown() string {
	return markdown
}

// Render formats the rules for a terminal of the given width. style is a
// glamour standard style name ("dark", "light", "notty", ...); empty picks
// one from the terminal background.
func Render(width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating rules renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering rules: %w", err)
	}
	return out, nil
}
