package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one confirmed purchase joined with the weather of its day.
type LedgerEntry struct {
	ID                 string
	Date               time.Time
	Weekday            time.Weekday
	WeatherDescription string
	TempMax            float64
	ItemName           string
	UnitPrice          decimal.NullDecimal
	VolumeMl           int

	// Tier and Suggested are set only when the entry was logged against a
	// recommendation.
	Tier      Tier
	Suggested *int
}

// Cost returns the unit price, or zero when it is missing.
func (e LedgerEntry) Cost() decimal.Decimal {
	if !e.UnitPrice.Valid {
		return decimal.Zero
	}
	return e.UnitPrice.Decimal
}
