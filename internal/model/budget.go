package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceTier is a reference unit price used to express remaining budget as
// a number of drinks.
type PriceTier struct {
	Name  string
	Price decimal.Decimal
}

// TierCount is how many units of a PriceTier the remaining budget buys.
type TierCount struct {
	Name  string
	Price decimal.Decimal
	Count int64
}

// BudgetPeriod is a derived view of spend inside one window. WindowEnd is
// inclusive.
type BudgetPeriod struct {
	Label       string
	WindowStart time.Time
	WindowEnd   time.Time
	Budget      decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	Entries     int
	Exhausted   bool
	TierCounts  []TierCount
}

// UsedPercent returns Spent/Budget in [0, +inf), 0 when Budget is zero.
func (p BudgetPeriod) UsedPercent() float64 {
	if p.Budget.IsZero() {
		return 0
	}
	return p.Spent.Div(p.Budget).InexactFloat64()
}

// MonthlySpend is one bucket of the spend history.
type MonthlySpend struct {
	Month   time.Time
	Spent   decimal.Decimal
	Entries int
}
