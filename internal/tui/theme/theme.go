// Package theme defines color themes for the brewburn TUI.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/brewburn/internal/model"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name        string
	Background  lipgloss.Color // Main app background
	Surface     lipgloss.Color // Panel backgrounds
	Highlight   lipgloss.Color // Selected row, active tab
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	TextDim     lipgloss.Color // Hints, disabled
	TextMuted   lipgloss.Color // Labels, metadata
	TextPrimary lipgloss.Color
	Accent      lipgloss.Color
	AccentDim   lipgloss.Color

	// Budget states
	OK       lipgloss.Color
	Warning  lipgloss.Color
	Exceeded lipgloss.Color

	// Day tiers
	Peak   lipgloss.Color
	Normal lipgloss.Color
	Low    lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = Theme{
	Name:        "flexoki-dark",
	Background:  lipgloss.Color("#100F0F"),
	Surface:     lipgloss.Color("#1C1B1A"),
	Highlight:   lipgloss.Color("#282726"),
	Border:      lipgloss.Color("#403E3C"),
	BorderFocus: lipgloss.Color("#3AA99F"),
	TextDim:     lipgloss.Color("#575653"),
	TextMuted:   lipgloss.Color("#878580"),
	TextPrimary: lipgloss.Color("#FFFCF0"),
	Accent:      lipgloss.Color("#3AA99F"),
	AccentDim:   lipgloss.Color("#1A3533"),
	OK:          lipgloss.Color("#879A39"),
	Warning:     lipgloss.Color("#DA702C"),
	Exceeded:    lipgloss.Color("#D14D41"),
	Peak:        lipgloss.Color("#D0A215"),
	Normal:      lipgloss.Color("#4385BE"),
	Low:         lipgloss.Color("#878580"),
}

// Amber is a lager-colored variant.
var Amber = Theme{
	Name:        "amber",
	Background:  lipgloss.Color("#17110A"),
	Surface:     lipgloss.Color("#221A10"),
	Highlight:   lipgloss.Color("#33271A"),
	Border:      lipgloss.Color("#4A3A26"),
	BorderFocus: lipgloss.Color("#F2A93B"),
	TextDim:     lipgloss.Color("#6B5A44"),
	TextMuted:   lipgloss.Color("#A8916F"),
	TextPrimary: lipgloss.Color("#FFF4DC"),
	Accent:      lipgloss.Color("#F2A93B"),
	AccentDim:   lipgloss.Color("#3D2C12"),
	OK:          lipgloss.Color("#9BBF5A"),
	Warning:     lipgloss.Color("#E8833A"),
	Exceeded:    lipgloss.Color("#E0533D"),
	Peak:        lipgloss.Color("#FFD166"),
	Normal:      lipgloss.Color("#F2A93B"),
	Low:         lipgloss.Color("#8AA7C8"),
}

// Terminal uses the 16 ANSI colors so it follows the terminal's palette.
var Terminal = Theme{
	Name:        "terminal",
	Background:  lipgloss.Color("0"),
	Surface:     lipgloss.Color("0"),
	Highlight:   lipgloss.Color("8"),
	Border:      lipgloss.Color("8"),
	BorderFocus: lipgloss.Color("6"),
	TextDim:     lipgloss.Color("8"),
	TextMuted:   lipgloss.Color("7"),
	TextPrimary: lipgloss.Color("15"),
	Accent:      lipgloss.Color("6"),
	AccentDim:   lipgloss.Color("0"),
	OK:          lipgloss.Color("2"),
	Warning:     lipgloss.Color("3"),
	Exceeded:    lipgloss.Color("1"),
	Peak:        lipgloss.Color("11"),
	Normal:      lipgloss.Color("4"),
	Low:         lipgloss.Color("8"),
}

// All available themes.
var All = []Theme{FlexokiDark, Amber, Terminal}

// Names returns the names of All, in order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// TierColor returns the color a day tier is drawn in.
func (t Theme) TierColor(tier model.Tier) lipgloss.Color {
	switch tier {
	case model.TierPeak:
		return t.Peak
	case model.TierLow:
		return t.Low
	default:
		return t.Normal
	}
}

// BudgetColor returns OK, Warning (past 80%) or Exceeded (past 100%).
func (t Theme) BudgetColor(used float64) lipgloss.Color {
	switch {
	case used > 1:
		return t.Exceeded
	case used > 0.8:
		return t.Warning
	default:
		return t.OK
	}
}
