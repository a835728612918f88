package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/brewburn/internal/budget"
	"github.com/theirongolddev/brewburn/internal/config"
	"github.com/theirongolddev/brewburn/internal/tui/theme"
	"github.com/theirongolddev/brewburn/internal/weather"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// SetupValues backs the setup form. Numbers are kept as text so the form
// can validate them as typed.
type SetupValues struct {
	ApplicationID string
	LocationName  string
	Latitude      string
	Longitude     string
	Monthly       string
	Weekly        string
	Table         string
	Theme         string
}

// SetupValuesFrom prefills the form from cfg.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		ApplicationID: cfg.Retail.ApplicationID,
		LocationName:  cfg.Location.Name,
		Latitude:      strconv.FormatFloat(cfg.Location.Latitude, 'f', -1, 64),
		Longitude:     strconv.FormatFloat(cfg.Location.Longitude, 'f', -1, 64),
		Monthly:       strconv.FormatInt(cfg.Budget.Monthly, 10),
		Weekly:        strconv.FormatInt(cfg.Budget.Weekly, 10),
		Table:         cfg.Weather.Table,
		Theme:         cfg.Appearance.Theme,
	}
}

// NewSetupForm builds the first-run / `brewburn setup` form over v.
func NewSetupForm(v *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to brewburn").
				Description("Log the beer you drink against the weather,\nand see what the rest of your budget buys."),
			huh.NewInput().
				Title("Rakuten application ID").
				Description("Needed for item search. Leave blank to use RAKUTEN_APP_ID.").
				EchoMode(huh.EchoModePassword).
				Value(&v.ApplicationID),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Location").
				Description("Where forecasts are fetched for.").
				Value(&v.LocationName),
			huh.NewInput().
				Title("Latitude").
				Validate(floatIn(-90, 90)).
				Value(&v.Latitude),
			huh.NewInput().
				Title("Longitude").
				Validate(floatIn(-180, 180)).
				Value(&v.Longitude),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly budget (¥)").
				Description(fmt.Sprintf("Between %d and %d.", budget.MinMonthly, budget.MaxMonthly)).
				Validate(validateMonthly).
				Value(&v.Monthly),
			huh.NewInput().
				Title("Weekly budget (¥)").
				Validate(validatePositive).
				Value(&v.Weekly),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Weather descriptions").
				Options(huh.NewOptions(weather.TableNames()...)...).
				Value(&v.Table),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
		),
	)
}

// Apply copies the form values into cfg. Values are assumed to have passed
// the form's validation; anything unparsable is reported.
func (v *SetupValues) Apply(cfg *config.Config) error {
	lat, err := strconv.ParseFloat(strings.TrimSpace(v.Latitude), 64)
	if err != nil {
		return fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(v.Longitude), 64)
	if err != nil {
		return fmt.Errorf("longitude: %w", err)
	}
	monthly, err := strconv.ParseInt(strings.TrimSpace(v.Monthly), 10, 64)
	if err != nil {
		return fmt.Errorf("monthly budget: %w", err)
	}
	weekly, err := strconv.ParseInt(strings.TrimSpace(v.Weekly), 10, 64)
	if err != nil {
		return fmt.Errorf("weekly budget: %w", err)
	}

	cfg.Retail.ApplicationID = strings.TrimSpace(v.ApplicationID)
	cfg.Location.Name = strings.TrimSpace(v.LocationName)
	cfg.Location.Latitude = lat
	cfg.Location.Longitude = lon
	cfg.Budget.Monthly = monthly
	cfg.Budget.Weekly = weekly
	cfg.Weather.Table = v.Table
	cfg.Appearance.Theme = v.Theme
	return nil
}

func floatIn(lo, hi float64) func(string) error {
	return func(s string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.New("enter a number")
		}
		if f < lo || f > hi {
			return fmt.Errorf("must be between %g and %g", lo, hi)
		}
		return nil
	}
}

func validatePositive(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return errors.New("enter a whole number of yen")
	}
	if n <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func validateMonthly(s string) error {
	if err := validatePositive(s); err != nil {
		return err
	}
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err := budget.CheckMonthly(decimal.NewFromInt(n)); err != nil {
		return fmt.Errorf("must be between %d and %d", budget.MinMonthly, budget.MaxMonthly)
	}
	return nil
}
