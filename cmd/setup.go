package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/brewburn/internal/config"
	"github.com/theirongolddev/brewburn/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	path := configPath()

	// Load existing config or defaults; a broken file is replaced.
	cfg, _ := config.LoadFrom(path)

	if id := config.GetApplicationID(cfg); id != "" && cfg.Retail.ApplicationID == "" {
		fmt.Printf("\n  Using application ID %s from RAKUTEN_APP_ID\n", maskAPIKey(id))
	}

	v := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(v).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}
	if err := v.Apply(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `brewburn setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
