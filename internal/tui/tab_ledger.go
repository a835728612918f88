package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/model"
	"github.com/theirongolddev/brewburn/internal/tui/components"
	"github.com/theirongolddev/brewburn/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// pendingRemoval is a removal awaiting y/n. Entries are addressed by ID so
// the confirmation still targets the same row if the list shifts.
type pendingRemoval struct {
	entry model.LedgerEntry
	last  bool
}

// ledgerChrome is the number of panel lines that are not entry rows.
const ledgerChrome = 5

func (a App) updateLedgerKey(key string) (tea.Model, tea.Cmd) {
	entries := a.ledger.All()
	switch key {
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "g":
		a.cursor = 0
		a.clampCursor()
	case "G":
		a.cursor = len(entries) - 1
		a.clampCursor()
	case "d", "delete":
		if len(entries) > 0 {
			a.pending = &pendingRemoval{entry: entries[a.cursor]}
		}
	case "u":
		if len(entries) > 0 {
			a.pending = &pendingRemoval{entry: entries[len(entries)-1], last: true}
		}
	}
	return a, nil
}

func (a App) updatePendingRemoval(key string) (tea.Model, tea.Cmd) {
	p := a.pending
	a.pending = nil
	if key != "y" && key != "Y" {
		a.setStatus("Kept "+cli.ShortID(p.entry.ID), false)
		return a, nil
	}

	var (
		removed model.LedgerEntry
		err     error
	)
	if p.last {
		removed, err = a.ledger.RemoveLast()
	} else {
		removed, err = a.ledger.Remove(p.entry.ID)
	}
	if err != nil {
		a.setStatus(err.Error(), true)
		return a, nil
	}
	a.recompute()
	return a, saveLedgerCmd(a.svc, a.ledger.ToSnapshot(), removed)
}

func (a *App) moveCursor(delta int) {
	a.cursor += delta
	a.clampCursor()
}

func (a *App) clampCursor() {
	n := a.ledger.Len()
	a.cursor = min(max(a.cursor, 0), max(n-1, 0))
}

func (a App) renderLedgerTab(cw, h int) string {
	t := theme.Active
	base := lipgloss.NewStyle().Background(t.Surface)
	entries := a.ledger.All()
	title := fmt.Sprintf("Ledger  ·  %d entries", len(entries))

	if len(entries) == 0 {
		return components.Panel(title, base.Foreground(t.TextMuted).Render("Nothing logged yet. Try: brewburn log <keyword>"), cw, true)
	}

	inner := components.PanelInnerWidth(cw)
	visible := max(h-ledgerChrome, 1)
	offset := max(a.cursor-visible+1, 0)
	end := min(offset+visible, len(entries))

	nameW := max(inner-70, 12)
	header := fmt.Sprintf("%-8s  %-10s %-3s  %-8s %7s  %-*s %9s %7s  %s",
		"ID", "Date", "Day", "Weather", "Max", nameW, "Item", "Per unit", "Volume", "Day")

	var b strings.Builder
	b.WriteString(base.Foreground(t.TextMuted).Render(header))
	b.WriteString("\n")
	for i := offset; i < end; i++ {
		e := entries[i]
		desc := e.WeatherDescription + strings.Repeat(" ", max(8-lipgloss.Width(e.WeatherDescription), 0))
		name := truncStr(e.ItemName, nameW)
		name += strings.Repeat(" ", max(nameW-lipgloss.Width(name), 0))
		line := fmt.Sprintf("%-8s  %-10s %-3s  %s %7s  %s %9s %7s  %s",
			cli.ShortID(e.ID), cli.FormatDate(e.Date), cli.FormatDayOfWeek(int(e.Weekday)),
			desc, cli.FormatTemp(e.TempMax), name,
			cli.FormatNullYen(e.UnitPrice), cli.FormatVolume(e.VolumeMl), e.Tier.Symbol())

		style := base.Foreground(t.TextPrimary)
		if i == a.cursor {
			style = style.Background(t.Highlight).Foreground(t.Accent).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if p := a.pending; p != nil {
		b.WriteString("\n")
		b.WriteString(base.Foreground(t.Warning).Bold(true).Render(
			fmt.Sprintf("Remove %s %s (%s)? y/n", cli.ShortID(p.entry.ID), truncStr(p.entry.ItemName, 30), cli.FormatDate(p.entry.Date))))
	}
	return components.Panel(title, strings.TrimRight(b.String(), "\n"), cw, true)
}
