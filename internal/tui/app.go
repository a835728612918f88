// Package tui provides the interactive Bubble Tea dashboard for brewburn.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/brewburn/internal/budget"
	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/config"
	"github.com/theirongolddev/brewburn/internal/ledger"
	"github.com/theirongolddev/brewburn/internal/model"
	"github.com/theirongolddev/brewburn/internal/pipeline"
	"github.com/theirongolddev/brewburn/internal/tui/components"
	"github.com/theirongolddev/brewburn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ForecastMsg is sent when a forecast fetch completes.
type ForecastMsg struct {
	Start time.Time
	Week  model.Week
	Err   error
}

// LedgerMsg is sent when the ledger has been loaded from the store.
type LedgerMsg struct {
	Ledger *ledger.Ledger
	Err    error
}

// SavedMsg is sent after a removal has been persisted.
type SavedMsg struct {
	Removed model.LedgerEntry
	Err     error
}

const (
	tabWeek = iota
	tabBudget
	tabLedger
	tabHistory
)

const (
	minTerminalWidth = 72
	maxContentWidth  = 140
	minContentHeight = 5

	fetchTimeout = 30 * time.Second
)

// App is the root TUI model.
type App struct {
	svc     *pipeline.Service
	cfg     config.Config
	cfgPath string
	opts    pipeline.Options

	// Data
	start    time.Time
	week     model.Week
	ledger   *ledger.Ledger
	monthly  model.BudgetPeriod
	weekly   model.BudgetPeriod
	history  []model.MonthlySpend
	fetching bool
	loaded   bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model
	status    string
	statusErr bool

	// Ledger tab
	cursor  int
	pending *pendingRemoval

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool
}

// NewApp creates the TUI over svc. cfgPath is where setup saves; when no
// file exists there the setup form is shown first.
func NewApp(svc *pipeline.Service, cfg config.Config, cfgPath string, opts pipeline.Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		svc:       svc,
		cfg:       cfg,
		cfgPath:   cfgPath,
		opts:      opts,
		start:     model.DateOf(time.Now()),
		ledger:    ledger.New(),
		spinner:   sp,
		fetching:  true,
		needSetup: !config.Exists(cfgPath),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		loadLedgerCmd(a.svc),
		fetchForecastCmd(a.svc, a.start),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		return a.updateKey(msg)

	case LedgerMsg:
		a.loaded = true
		if msg.Err != nil {
			a.setStatus(msg.Err.Error(), true)
		} else {
			a.ledger = msg.Ledger
			a.recompute()
		}
		if a.needSetup {
			a.setupVals = SetupValuesFrom(a.cfg)
			a.setupForm = NewSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ForecastMsg:
		if !msg.Start.Equal(a.start) {
			return a, nil // superseded by a later request
		}
		a.fetching = false
		if msg.Err != nil {
			a.week = model.Week{}
			a.setStatus(msg.Err.Error(), true)
			return a, nil
		}
		a.week = msg.Week
		a.setStatus("Forecast from "+cli.FormatDate(a.start), false)
		return a, nil

	case SavedMsg:
		if msg.Err != nil {
			a.setStatus("save failed: "+msg.Err.Error(), true)
			return a, loadLedgerCmd(a.svc)
		}
		a.setStatus(fmt.Sprintf("Removed %s %s", cli.ShortID(msg.Removed.ID), msg.Removed.ItemName), false)
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.fetching {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	if a.pending != nil {
		return a.updatePendingRemoval(key)
	}

	switch key {
	case "?":
		a.showHelp = true
		return a, nil
	case "q":
		return a, tea.Quit
	case "r":
		a.fetching = true
		return a, tea.Batch(a.spinner.Tick, loadLedgerCmd(a.svc), fetchForecastCmd(a.svc, a.start))
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}
	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case tabWeek:
		return a.updateWeekKey(key)
	case tabLedger:
		return a.updateLedgerKey(key)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabLedger {
			a.moveCursor(-1)
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabLedger {
			a.moveCursor(1)
		}
	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		cmd := a.applySetup()
		return a, cmd
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// applySetup saves the form values and rebuilds the service so location and
// budget changes take effect.
func (a *App) applySetup() tea.Cmd {
	cfg := a.cfg
	if err := a.setupVals.Apply(&cfg); err != nil {
		a.setStatus(err.Error(), true)
		return nil
	}
	if err := config.SaveTo(a.cfgPath, cfg); err != nil {
		a.setStatus("could not save config: "+err.Error(), true)
	}
	theme.SetActive(cfg.Appearance.Theme)

	svc, err := pipeline.New(cfg, a.svc.Store, a.opts)
	if err != nil {
		a.setStatus(err.Error(), true)
		return nil
	}
	a.cfg = cfg
	a.svc = svc
	a.recompute()
	a.fetching = true
	return tea.Batch(a.spinner.Tick, fetchForecastCmd(a.svc, a.start))
}

// recompute derives budgets and history from the ledger.
func (a *App) recompute() {
	entries := a.ledger.All()
	a.monthly, a.weekly = a.svc.Budgets(entries)
	a.history = budget.MonthlyHistory(entries)
	a.clampCursor()
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  brewburn needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Background(t.Surface).
		Padding(1, 4)

	logo := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Render("🍺 brewburn")
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" Loading ledger...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		card.Render(logo+"\n\n"+a.spinner.View()+sub),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	bindings := []struct{ key, desc string }{
		{"w b l h", "Jump to tab"},
		{"← → tab", "Previous / next tab"},
		{"[ ]", "Previous / next week (Week)"},
		{"t", "Back to this week (Week)"},
		{"j k g G", "Move in the ledger"},
		{"d", "Remove selected entry"},
		{"u", "Remove the last entry"},
		{"r", "Reload"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(keyStyle.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "%s  %s\n", keyStyle.Render(fmt.Sprintf("%-8s", bind.key)), descStyle.Render(bind.desc))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Background(t.Surface).
		Padding(1, 3).
		Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, a.width)
	statusBar := components.RenderStatusBar(a.width, a.hints(), a.statusText(), a.statusErr)
	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabWeek:
		content = a.renderWeekTab(cw)
	case tabBudget:
		content = a.renderBudgetTab(cw)
	case tabLedger:
		content = a.renderLedgerTab(cw, contentH)
	case tabHistory:
		content = a.renderHistoryTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(a.width, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (a App) hints() string {
	if a.pending != nil {
		return "[y]es remove  [n]o"
	}
	switch a.activeTab {
	case tabWeek:
		return "[ ] week  [t]oday  [?]help  [q]uit"
	case tabLedger:
		return "[j/k] move  [d]elete  [u]ndo last  [?]help  [q]uit"
	}
	return "[r]eload  [?]help  [q]uit"
}

func (a App) statusText() string {
	if a.fetching {
		return a.spinner.View() + " fetching forecast"
	}
	return a.status
}

// ─── Commands ───────────────────────────────────────────────────

func fetchForecastCmd(svc *pipeline.Service, start time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		_, week, err := svc.Forecast(ctx, start)
		return ForecastMsg{Start: start, Week: week, Err: err}
	}
}

func loadLedgerCmd(svc *pipeline.Service) tea.Cmd {
	return func() tea.Msg {
		l, err := svc.LoadLedger()
		return LedgerMsg{Ledger: l, Err: err}
	}
}

// saveLedgerCmd persists a copy of entries so the model's ledger is never
// shared with the command goroutine.
func saveLedgerCmd(svc *pipeline.Service, entries []model.LedgerEntry, removed model.LedgerEntry) tea.Cmd {
	return func() tea.Msg {
		l := ledger.New()
		l.LoadFromSnapshot(entries)
		return SavedMsg{Removed: removed, Err: svc.SaveLedger(l)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: tabs separated by one column.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
