package recommend

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/model"
)

// Temperature thresholds, in °C, for the weighted plan.
const (
	HotThreshold  = 25.0
	ColdThreshold = 15.0
)

var (
	hotWeight    = decimal.RequireFromString("1.5")
	coldWeight   = decimal.RequireFromString("0.5")
	normalWeight = decimal.NewFromInt(1)
)

// ErrInvalidPrice is returned when the unit price is not positive.
var ErrInvalidPrice = errors.New("recommend: unit price must be positive")

// Allocation is one day of a budget plan.
type Allocation struct {
	Date    time.Time
	Weekday time.Weekday
	TempMax float64
	Weight  decimal.Decimal
	Units   decimal.Decimal
	Cost    decimal.Decimal
}

// Plan spreads a budget across a forecast.
type Plan struct {
	Days       []Allocation
	UnitPrice  decimal.Decimal
	Budget     decimal.Decimal
	TotalUnits decimal.Decimal
	TotalCost  decimal.Decimal
}

// Allocate gives every day an even share of budget/unitPrice units, scaled
// by 1.5 above HotThreshold and 0.5 below ColdThreshold. A day never gets
// more than what is left of the budget, so the plan can run dry before the
// window ends. Unlike Recommend, the window may be any length.
func Allocate(days []model.WeatherDay, unitPrice, budget decimal.Decimal) (Plan, error) {
	if len(days) == 0 {
		return Plan{}, ErrWindowSize
	}
	if !unitPrice.IsPositive() {
		return Plan{}, ErrInvalidPrice
	}

	plan := Plan{
		Days:       make([]Allocation, 0, len(days)),
		UnitPrice:  unitPrice,
		Budget:     budget,
		TotalUnits: decimal.Zero,
		TotalCost:  decimal.Zero,
	}
	base := budget.Div(unitPrice).Div(decimal.NewFromInt(int64(len(days))))
	remaining := budget

	for _, d := range days {
		w := weightFor(d.TempMax)
		units := base.Mul(w)
		if left := decimal.Max(remaining, decimal.Zero).Div(unitPrice); units.GreaterThan(left) {
			units = left
		}
		units = units.Truncate(2)
		cost := units.Mul(unitPrice)
		remaining = remaining.Sub(cost)

		plan.Days = append(plan.Days, Allocation{
			Date:    d.Date,
			Weekday: d.Weekday,
			TempMax: d.TempMax,
			Weight:  w,
			Units:   units,
			Cost:    cost,
		})
		plan.TotalUnits = plan.TotalUnits.Add(units)
		plan.TotalCost = plan.TotalCost.Add(cost)
	}
	return plan, nil
}

func weightFor(temp float64) decimal.Decimal {
	switch {
	case temp > HotThreshold:
		return hotWeight
	case temp < ColdThreshold:
		return coldWeight
	default:
		return normalWeight
	}
}
