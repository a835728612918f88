// Package components provides reusable TUI widgets for the brewburn dashboard.
package components

import (
	"github.com/theirongolddev/brewburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// LayoutRow splits totalWidth into n widths summing to exactly totalWidth.
// The first widths absorb the remainder.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base, rem := totalWidth/n, totalWidth%n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < rem {
			widths[i]++
		}
	}
	return widths
}

// Panel renders body in a rounded border with an optional title. outerWidth
// includes the border.
func Panel(title, body string, outerWidth int, focused bool) string {
	t := theme.Active

	border := t.Border
	if focused {
		border = t.BorderFocus
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)

	content := body
	if title != "" {
		titleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
		content = titleStyle.Render(title) + "\n" + body
	}
	return style.Render(content)
}

// PanelInnerWidth is the text width inside a Panel of outerWidth.
func PanelInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10)
}

// PanelRow lays panels side by side.
func PanelRow(panels ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}
