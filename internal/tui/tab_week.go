package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/model"
	"github.com/theirongolddev/brewburn/internal/tui/components"
	"github.com/theirongolddev/brewburn/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a App) updateWeekKey(key string) (tea.Model, tea.Cmd) {
	start := a.start
	switch key {
	case "[":
		start = start.AddDate(0, 0, -7)
	case "]":
		start = start.AddDate(0, 0, 7)
	case "t":
		start = model.DateOf(time.Now())
	default:
		return a, nil
	}
	if start.Equal(a.start) {
		return a, nil
	}
	a.start = start
	a.fetching = true
	return a, tea.Batch(a.spinner.Tick, fetchForecastCmd(a.svc, a.start))
}

func (a App) renderWeekTab(cw int) string {
	t := theme.Active
	title := fmt.Sprintf("Drinking days from %s  ·  %s", cli.FormatDate(a.start), a.cfg.Location.Name)

	if len(a.week.Entries) == 0 {
		msg := "No forecast yet."
		if !a.fetching && a.statusErr {
			msg = "Forecast unavailable. Press r to retry."
		}
		return components.Panel(title, lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(msg), cw, true)
	}

	base := lipgloss.NewStyle().Background(t.Surface)
	muted := base.Foreground(t.TextMuted)
	text := base.Foreground(t.TextPrimary)

	var b strings.Builder
	b.WriteString(muted.Render(fmt.Sprintf("%-12s %-4s %-10s %8s  %-10s %s", "Date", "Day", "Weather", "Max", "Day type", "Drinks")))
	b.WriteString("\n")
	for _, e := range a.week.Entries {
		tier := base.Foreground(t.TierColor(e.Tier)).Bold(e.Tier == model.TierPeak)
		desc := e.Description + strings.Repeat(" ", max(10-lipgloss.Width(e.Description), 0))
		b.WriteString(text.Render(fmt.Sprintf("%-12s %-4s ", cli.FormatDate(e.Date), cli.FormatDayOfWeek(int(e.Weekday)))))
		b.WriteString(text.Render(desc))
		b.WriteString(text.Render(fmt.Sprintf(" %8s  ", cli.FormatTemp(e.TempMax))))
		b.WriteString(tier.Render(fmt.Sprintf("%-10s", cli.FormatTier(e.Tier))))
		b.WriteString(tier.Render(" " + strings.Repeat("🍺", e.SuggestedCount)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(muted.Render("Forecast for the week: "))
	b.WriteString(base.Foreground(t.Accent).Bold(true).Render(strconv.Itoa(a.week.Total) + " drinks"))

	return components.Panel(title, b.String(), cw, true)
}
