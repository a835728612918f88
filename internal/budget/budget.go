// Package budget projects ledger spend against monthly and weekly budgets.
package budget

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/model"
)

// Default budgets in yen.
var (
	DefaultMonthly = decimal.NewFromInt(5000)
	DefaultWeekly  = decimal.NewFromInt(1250)
)

// Bounds accepted for a monthly budget.
const (
	MinMonthly = 1000
	MaxMonthly = 10000
)

// ErrOutOfBounds is returned by CheckMonthly.
var ErrOutOfBounds = errors.New("budget: monthly budget out of bounds")

// CheckMonthly reports whether b lies within [MinMonthly, MaxMonthly].
func CheckMonthly(b decimal.Decimal) error {
	if b.LessThan(decimal.NewFromInt(MinMonthly)) || b.GreaterThan(decimal.NewFromInt(MaxMonthly)) {
		return fmt.Errorf("%w: %s not in [%d, %d]", ErrOutOfBounds, b, MinMonthly, MaxMonthly)
	}
	return nil
}

// DefaultTiers are the reference unit prices remaining budget is expressed in.
var DefaultTiers = []model.PriceTier{
	{Name: "third-beer", Price: decimal.NewFromInt(170)},
	{Name: "premium", Price: decimal.NewFromInt(240)},
	{Name: "craft", Price: decimal.NewFromInt(500)},
}

// Projector computes BudgetPeriods relative to the current date.
type Projector struct {
	Now   func() time.Time
	Tiers []model.PriceTier
}

// NewProjector returns a Projector on the wall clock. Nil tiers select
// DefaultTiers.
func NewProjector(tiers []model.PriceTier) *Projector {
	if tiers == nil {
		tiers = DefaultTiers
	}
	return &Projector{Now: time.Now, Tiers: tiers}
}

func (p *Projector) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// ProjectMonthly covers the calendar month containing today.
func (p *Projector) ProjectMonthly(entries []model.LedgerEntry, budget decimal.Decimal) model.BudgetPeriod {
	start, end := MonthWindow(p.now())
	return Project(entries, start.Format("2006-01"), start, end, budget, p.Tiers)
}

// ProjectWeekly covers today through the coming Sunday. The window is not a
// full calendar week: on a Sunday it is a single day.
func (p *Projector) ProjectWeekly(entries []model.LedgerEntry, budget decimal.Decimal) model.BudgetPeriod {
	start, end := WeekWindow(p.now())
	label := start.Format(model.DateLayout) + " ~ " + end.Format(model.DateLayout)
	return Project(entries, label, start, end, budget, p.Tiers)
}

// MonthWindow returns the first and last day of now's month.
func MonthWindow(now time.Time) (time.Time, time.Time) {
	today := model.DateOf(now)
	start := today.AddDate(0, 0, 1-today.Day())
	end := start.AddDate(0, 1, -1)
	return start, end
}

// WeekWindow returns today and the following Sunday (inclusive).
func WeekWindow(now time.Time) (time.Time, time.Time) {
	today := model.DateOf(now)
	fromMonday := (int(today.Weekday()) + 6) % 7
	return today, today.AddDate(0, 0, 6-fromMonday)
}

// Project builds the BudgetPeriod for entries dated within [start, end].
func Project(entries []model.LedgerEntry, label string, start, end time.Time, budget decimal.Decimal, tiers []model.PriceTier) model.BudgetPeriod {
	inWindow := FilterByDate(entries, start, end)

	spent := decimal.Zero
	for _, e := range inWindow {
		spent = spent.Add(e.Cost())
	}

	period := model.BudgetPeriod{
		Label:       label,
		WindowStart: start,
		WindowEnd:   end,
		Budget:      budget,
		Spent:       spent,
		Remaining:   budget.Sub(spent),
		Entries:     len(inWindow),
	}
	if period.Remaining.IsNegative() {
		period.Exhausted = true
		return period
	}

	period.TierCounts = make([]model.TierCount, 0, len(tiers))
	for _, t := range tiers {
		if !t.Price.IsPositive() {
			continue
		}
		period.TierCounts = append(period.TierCounts, model.TierCount{
			Name:  t.Name,
			Price: t.Price,
			Count: period.Remaining.Div(t.Price).Floor().IntPart(),
		})
	}
	return period
}

// FilterByDate returns entries whose date falls within [start, end],
// both inclusive.
func FilterByDate(entries []model.LedgerEntry, start, end time.Time) []model.LedgerEntry {
	start, end = model.DateOf(start), model.DateOf(end)
	var out []model.LedgerEntry
	for _, e := range entries {
		d := model.DateOf(e.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}
