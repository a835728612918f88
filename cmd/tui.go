package cmd

import (
	"fmt"

	"github.com/theirongolddev/brewburn/internal/pipeline"
	"github.com/theirongolddev/brewburn/internal/tui"
	"github.com/theirongolddev/brewburn/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	svc, cfg, closeStore, err := openService()
	if err != nil {
		return err
	}
	defer closeStore()

	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor so background styling is rendered even when lipgloss
	// would otherwise pick the Ascii profile.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(svc, cfg, configPath(), pipeline.Options{NoCache: flagNoCache})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
