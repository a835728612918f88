package tui

import (
	"strings"

	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/tui/components"
	"github.com/theirongolddev/brewburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderHistoryTab(cw int) string {
	t := theme.Active
	base := lipgloss.NewStyle().Background(t.Surface)

	if len(a.history) == 0 {
		return components.Panel("Monthly spend", base.Foreground(t.TextMuted).Render("No spend history yet."), cw, true)
	}

	limit := a.svc.Monthly.InexactFloat64()
	top := limit * 1.25
	for _, m := range a.history {
		top = max(top, m.Spent.InexactFloat64())
	}
	barW := max(components.PanelInnerWidth(cw)-30, 10)

	var b strings.Builder
	b.WriteString(base.Foreground(t.TextMuted).Render("Budget " + cli.FormatYen(a.svc.Monthly) + " marked │"))
	b.WriteString("\n\n")
	for _, m := range a.history {
		spent := m.Spent.InexactFloat64()
		filled := min(int(spent/top*float64(barW)), barW)
		mark := min(int(limit/top*float64(barW)), barW-1)

		cells := []rune(strings.Repeat("█", filled) + strings.Repeat(" ", barW-filled))
		cells[mark] = '│'

		bar := base.Foreground(t.BudgetColor(spent / limit)).Render(string(cells))
		b.WriteString(base.Foreground(t.TextMuted).Render(m.Month.Format("2006-01") + " "))
		b.WriteString(bar)
		b.WriteString(base.Foreground(t.TextPrimary).Render(" " + cli.FormatYen(m.Spent)))
		b.WriteString("\n")
	}
	return components.Panel("Monthly spend", strings.TrimRight(b.String(), "\n"), cw, true)
}
