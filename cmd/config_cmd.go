// Package cmd implements the brewburn CLI commands.
package cmd

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/brewburn/internal/config"
	"github.com/theirongolddev/brewburn/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	path := configPath()
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", path)
	if config.Exists(path) {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problems: %s\n", err)
	}
	fmt.Println()

	fmt.Println("  [General]")
	dbPath := cfg.DBPath()
	if flagDBPath != "" {
		dbPath = flagDBPath
	}
	fmt.Printf("    Database: %s\n", dbPath)
	if config.Exists(dbPath) {
		if st, err := store.Open(dbPath); err == nil {
			if n, err := st.LedgerCount(); err == nil {
				fmt.Printf("    Entries:  %d\n", n)
			}
			_ = st.Close()
		}
	}
	fmt.Println()

	fmt.Println("  [Location]")
	fmt.Printf("    Name:      %s\n", cfg.Location.Name)
	fmt.Printf("    Latitude:  %g\n", cfg.Location.Latitude)
	fmt.Printf("    Longitude: %g\n", cfg.Location.Longitude)
	fmt.Printf("    Timezone:  %s\n", cfg.Location.Timezone)
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Monthly: ¥%d\n", cfg.Budget.Monthly)
	fmt.Printf("    Weekly:  ¥%d\n", cfg.Budget.Weekly)
	for _, t := range cfg.Budget.Tiers {
		fmt.Printf("    Tier %-12s ¥%d\n", t.Name, t.Price)
	}
	fmt.Println()

	fmt.Println("  [Weather]")
	fmt.Printf("    Table: %s\n", cfg.Weather.Table)
	if len(cfg.Weather.Overrides) > 0 {
		keys := make([]string, 0, len(cfg.Weather.Overrides))
		for k := range cfg.Weather.Overrides {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("    Override %s: %s\n", k, cfg.Weather.Overrides[k])
		}
	}
	fmt.Println()

	fmt.Println("  [Retail]")
	if id := config.GetApplicationID(cfg); id != "" {
		fmt.Printf("    Application ID: %s\n", maskAPIKey(id))
	} else {
		fmt.Println("    Application ID: not configured")
	}
	fmt.Printf("    Keyword prefix: %s\n", cfg.Retail.KeywordPrefix)
	fmt.Printf("    Excluded words: %s\n", cfg.Retail.NGKeyword)
	fmt.Println()

	fmt.Println("  [Fetch]")
	fmt.Printf("    Cache TTL:    %s\n", cfg.Fetch.CacheTTL())
	fmt.Printf("    Max attempts: %d\n", cfg.Fetch.MaxAttempts)
	fmt.Printf("    Backoff base: %s\n", cfg.Fetch.BackoffBase())
	fmt.Printf("    Timeout:      %s\n", cfg.Fetch.Timeout())
	fmt.Printf("    Persistent:   %v\n", cfg.Fetch.PersistentCache)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Printf("    Forecast: %s\n", cfg.Daemon.ForecastSchedule)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `brewburn setup` to reconfigure.")
	return nil
}
