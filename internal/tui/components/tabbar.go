package components

import (
	"strings"

	"github.com/theirongolddev/brewburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab is one entry of the tab bar. The shortcut is the first letter.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Week", Key: 'w'},
	{Name: "Budget", Key: 'b'},
	{Name: "Ledger", Key: 'l'},
	{Name: "History", Key: 'h'},
}

// tabPadding is the horizontal padding on each side of a tab label.
const tabPadding = 1

// TabVisualWidth is the rendered width of tab, separators excluded.
func TabVisualWidth(tab Tab) int {
	return lipgloss.Width(tab.Name) + 2*tabPadding
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Highlight).
		Bold(true).
		Padding(0, tabPadding)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, tabPadding)
	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Underline(true).
		Padding(0, tabPadding)
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(tab.Name)
			continue
		}
		// Underline the shortcut letter. Padding belongs to the outer style,
		// so render the pieces unpadded.
		parts[i] = inactiveStyle.Render(
			keyStyle.UnsetPadding().Render(tab.Name[:1]) +
				inactiveStyle.UnsetPadding().Render(tab.Name[1:]))
	}

	bar := strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(bar)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
