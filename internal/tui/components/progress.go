package components

import (
	"fmt"

	"github.com/theirongolddev/brewburn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// BudgetBar renders "label [bar] pct" for the share of a budget used. The
// bar is clamped at full; the percentage is not.
func BudgetBar(label string, used float64, labelW, barWidth int) string {
	t := theme.Active
	color := t.BudgetColor(used)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space +
		bar.ViewAs(min(max(used, 0), 1)) +
		space +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", used*100))
}
