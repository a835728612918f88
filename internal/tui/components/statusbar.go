package components

import (
	"strings"

	"github.com/theirongolddev/brewburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left, a
// status message on the right. An error message is drawn in the warning
// color.
func RenderStatusBar(width int, hints, status string, isErr bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	right := base
	if isErr {
		right = right.Foreground(t.Warning)
	}

	left := base.Render(" " + hints)
	r := right.Render(status + " ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(r), 0)
	return left + base.Render(strings.Repeat(" ", gap)) + r
}
