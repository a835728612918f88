// Package config loads and saves brewburn's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all brewburn configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Location   LocationConfig   `toml:"location"`
	Budget     BudgetConfig     `toml:"budget"`
	Weather    WeatherConfig    `toml:"weather"`
	Retail     RetailConfig     `toml:"retail"`
	Fetch      FetchConfig      `toml:"fetch"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Logging    LoggingConfig    `toml:"logging"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath string `toml:"db_path,omitempty"`
}

// LocationConfig is where forecasts are fetched for.
type LocationConfig struct {
	Name      string  `toml:"name"`
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
	Timezone  string  `toml:"timezone"`
}

// BudgetConfig holds budgets and reference tier prices, in yen.
type BudgetConfig struct {
	Monthly int64        `toml:"monthly"`
	Weekly  int64        `toml:"weekly"`
	Tiers   []TierConfig `toml:"tiers"`
}

// TierConfig is one reference unit price.
type TierConfig struct {
	Name  string `toml:"name"`
	Price int64  `toml:"price"`
}

// WeatherConfig selects the description table. Override keys are weather
// categories (0-9) written as strings.
type WeatherConfig struct {
	Table     string            `toml:"table"`
	Overrides map[string]string `toml:"overrides,omitempty"`
}

// RetailConfig holds item search settings.
type RetailConfig struct {
	ApplicationID string `toml:"application_id,omitempty"`
	KeywordPrefix string `toml:"keyword_prefix"`
	NGKeyword     string `toml:"ng_keyword"`
}

// FetchConfig tunes the HTTP layer.
type FetchConfig struct {
	CacheTTLSec     int  `toml:"cache_ttl_sec"`
	MaxAttempts     int  `toml:"max_attempts"`
	BackoffBaseMs   int  `toml:"backoff_base_ms"`
	TimeoutSec      int  `toml:"timeout_sec"`
	PersistentCache bool `toml:"persistent_cache"`
}

// DaemonConfig holds background service settings.
type DaemonConfig struct {
	Addr             string `toml:"addr"`
	IntervalSec      int    `toml:"interval_sec"`
	ForecastSchedule string `toml:"forecast_schedule"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Location: LocationConfig{
			Name:      "Kawasaki",
			Latitude:  35.5206,
			Longitude: 139.7172,
			Timezone:  "auto",
		},
		Budget: BudgetConfig{
			Monthly: 5000,
			Weekly:  1250,
			Tiers: []TierConfig{
				{Name: "third-beer", Price: 170},
				{Name: "premium", Price: 240},
				{Name: "craft", Price: 500},
			},
		},
		Weather: WeatherConfig{
			Table: "revised",
		},
		Retail: RetailConfig{
			KeywordPrefix: "ビール",
			NGKeyword:     "ふるさと エントリー クーポン 倍",
		},
		Fetch: FetchConfig{
			CacheTTLSec:     300,
			MaxAttempts:     5,
			BackoffBaseMs:   200,
			TimeoutSec:      10,
			PersistentCache: true,
		},
		Daemon: DaemonConfig{
			Addr:             "127.0.0.1:8787",
			IntervalSec:      15,
			ForecastSchedule: "0 0 6 * * *",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "brewburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "brewburn")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "brewburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "brewburn")
}

// DBPath returns the configured database path, or the default under DataDir.
func (c Config) DBPath() string {
	if c.General.DBPath != "" {
		return c.General.DBPath
	}
	return filepath.Join(DataDir(), "brewburn.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetApplicationID returns the Rakuten application ID from env var or
// config, in that order.
func GetApplicationID(cfg Config) string {
	if id := os.Getenv("RAKUTEN_APP_ID"); id != "" {
		return id
	}
	return cfg.Retail.ApplicationID
}

// LoadDotEnv loads KEY=value pairs from the given files (default ".env")
// into the environment without overriding variables already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Budget.Monthly <= 0 {
		errs = append(errs, fmt.Errorf("budget.monthly must be positive, got %d", c.Budget.Monthly))
	}
	if c.Budget.Weekly <= 0 {
		errs = append(errs, fmt.Errorf("budget.weekly must be positive, got %d", c.Budget.Weekly))
	}
	for _, t := range c.Budget.Tiers {
		if t.Price <= 0 {
			errs = append(errs, fmt.Errorf("budget tier %q: price must be positive, got %d", t.Name, t.Price))
		}
	}
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		errs = append(errs, fmt.Errorf("location.latitude out of range: %g", c.Location.Latitude))
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		errs = append(errs, fmt.Errorf("location.longitude out of range: %g", c.Location.Longitude))
	}
	if _, err := c.Weather.DescriptionTable(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
