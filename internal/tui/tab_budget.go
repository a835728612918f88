package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/model"
	"github.com/theirongolddev/brewburn/internal/tui/components"
	"github.com/theirongolddev/brewburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBudgetTab(cw int) string {
	widths := components.LayoutRow(cw, 2)
	return components.PanelRow(
		a.renderPeriodPanel("This month", a.monthly, widths[0]),
		a.renderPeriodPanel("This week", a.weekly, widths[1]),
	)
}

func (a App) renderPeriodPanel(title string, p model.BudgetPeriod, outer int) string {
	t := theme.Active
	inner := components.PanelInnerWidth(outer)

	base := lipgloss.NewStyle().Background(t.Surface)
	label := base.Foreground(t.TextMuted)
	value := base.Foreground(t.TextPrimary).Bold(true)

	row := func(k, v string) string {
		return label.Render(fmt.Sprintf("%-11s", k)) + value.Render(v) + "\n"
	}

	var b strings.Builder
	b.WriteString(label.Render(p.Label))
	b.WriteString("\n\n")
	b.WriteString(row("Drank", fmt.Sprintf("%d  %s", p.Entries, strings.Repeat("🍺", min(p.Entries, (inner-16)/2)))))
	b.WriteString(row("Spent", cli.FormatYen(p.Spent)+" / "+cli.FormatYen(p.Budget)))
	b.WriteString(components.BudgetBar("Used", p.UsedPercent(), 10, inner-16))
	b.WriteString("\n\n")

	if p.Exhausted {
		b.WriteString(base.Foreground(t.Exceeded).Bold(true).Render("No budget left"))
		b.WriteString(label.Render("  (" + cli.FormatYen(p.Remaining) + ")"))
		return components.Panel(title, b.String(), outer, false)
	}

	b.WriteString(row("Remaining", cli.FormatYen(p.Remaining)))
	b.WriteString("\n")
	for _, tc := range p.TierCounts {
		b.WriteString(label.Render(fmt.Sprintf("%-11s", tc.Name)))
		b.WriteString(value.Render(fmt.Sprintf("%3d", tc.Count)))
		b.WriteString(label.Render(" @ " + cli.FormatYen(tc.Price)))
		b.WriteString("\n")
	}
	return components.Panel(title, strings.TrimRight(b.String(), "\n"), outer, false)
}
