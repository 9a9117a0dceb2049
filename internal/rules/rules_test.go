package rules

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestMarkdown_Embedded(t *testing.T) {
	md := Markdown()
	require.True(t, strings.HasPrefix(md, "# How to play"))
	require.Contains(t, md, "Intermediate")
}

func TestRender_NoTTY(t *testing.T) {
	out, err := Render(60, "notty")
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "How to play")
	require.Contains(t, plain, "Expert")
}
