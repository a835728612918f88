package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/model"
	"github.com/theirongolddev/brewburn/internal/weather"
)

// MonthlyBudget returns the monthly budget as a decimal.
func (b BudgetConfig) MonthlyBudget() decimal.Decimal {
	return decimal.NewFromInt(b.Monthly)
}

// WeeklyBudget returns the weekly budget as a decimal.
func (b BudgetConfig) WeeklyBudget() decimal.Decimal {
	return decimal.NewFromInt(b.Weekly)
}

// PriceTiers returns the configured tiers in order.
func (b BudgetConfig) PriceTiers() []model.PriceTier {
	tiers := make([]model.PriceTier, 0, len(b.Tiers))
	for _, t := range b.Tiers {
		tiers = append(tiers, model.PriceTier{Name: t.Name, Price: decimal.NewFromInt(t.Price)})
	}
	return tiers
}

// DescriptionTable resolves the named table with overrides applied.
func (w WeatherConfig) DescriptionTable() (weather.DescriptionTable, error) {
	overrides := make(map[int]string, len(w.Overrides))
	for k, v := range w.Overrides {
		category, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("weather.overrides: category %q is not a number", k)
		}
		overrides[category] = v
	}
	return weather.TableByName(w.Table, overrides)
}

// CacheTTL returns the response cache lifetime.
func (f FetchConfig) CacheTTL() time.Duration {
	return time.Duration(f.CacheTTLSec) * time.Second
}

// BackoffBase returns the first retry delay.
func (f FetchConfig) BackoffBase() time.Duration {
	return time.Duration(f.BackoffBaseMs) * time.Millisecond
}

// Timeout returns the per-attempt request timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}
