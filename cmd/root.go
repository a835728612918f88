package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/theirongolddev/brewburn/internal/config"
	"github.com/theirongolddev/brewburn/internal/logging"
	"github.com/theirongolddev/brewburn/internal/model"
	"github.com/theirongolddev/brewburn/internal/pipeline"
	"github.com/theirongolddev/brewburn/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagConfigPath string
	flagDBPath     string
	flagLogLevel   string
	flagLogFormat  string
	flagQuiet      bool
	flagNoCache    bool
)

var rootCmd = &cobra.Command{
	Use:               "brewburn",
	Short:             "Beer budget and drinking-day planner",
	Long:              "Log the beer you drink against the weather, and see what the rest of your budget buys.",
	RunE:              runBudget,
	PersistentPreRunE: setupRuntime,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %s\n", describeError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Ledger database path")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: console or json")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the response cache")
}

func configPath() string {
	if flagConfigPath != "" {
		return flagConfigPath
	}
	return config.ConfigPath()
}

// loadConfig reads the config named by --config (or the default path) and
// validates it.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadFrom(configPath())
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", configPath(), err)
	}
	return cfg, nil
}

func setupRuntime(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	// A broken config must not stop logging from coming up; the command
	// that needs it reports the error.
	cfg, _ := config.LoadFrom(configPath())

	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagQuiet {
		level = "error"
	}
	format := cfg.Logging.Format
	if flagLogFormat != "" {
		format = flagLogFormat
	}
	return logging.Setup(os.Stderr, level, format)
}

// openService loads config, opens the ledger store and builds the pipeline.
// The returned func closes the store.
func openService() (*pipeline.Service, config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, nil, err
	}

	dbPath := cfg.DBPath()
	if flagDBPath != "" {
		dbPath = flagDBPath
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, cfg, nil, err
	}
	if n, err := st.Responses().PurgeExpired(); err != nil {
		slog.Warn("purging response cache", "db", st.Path(), "err", err)
	} else if n > 0 {
		slog.Debug("purged expired responses", "db", st.Path(), "count", n)
	}

	svc, err := pipeline.New(cfg, st, pipeline.Options{NoCache: flagNoCache})
	if err != nil {
		_ = st.Close()
		return nil, cfg, nil, err
	}
	return svc, cfg, func() { _ = st.Close() }, nil
}

// parseDateFlag parses a YYYY-MM-DD flag value, defaulting to today.
func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return model.DateOf(time.Now()), nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

// progress writes a status line to stderr unless --quiet is set.
func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}
