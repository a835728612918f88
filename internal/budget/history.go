package budget

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/model"
)

// MonthlyHistory totals spend per calendar month, ascending, from the first
// month with an entry to the last. Months with no entries are included with
// zero spend.
func MonthlyHistory(entries []model.LedgerEntry) []model.MonthlySpend {
	if len(entries) == 0 {
		return nil
	}

	byMonth := make(map[time.Time]*model.MonthlySpend)
	for _, e := range entries {
		m := monthOf(e.Date)
		ms, ok := byMonth[m]
		if !ok {
			ms = &model.MonthlySpend{Month: m, Spent: decimal.Zero}
			byMonth[m] = ms
		}
		ms.Spent = ms.Spent.Add(e.Cost())
		ms.Entries++
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	first, last := months[0], months[len(months)-1]
	var out []model.MonthlySpend
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		if ms, ok := byMonth[m]; ok {
			out = append(out, *ms)
		} else {
			out = append(out, model.MonthlySpend{Month: m, Spent: decimal.Zero})
		}
	}
	return out
}

func monthOf(t time.Time) time.Time {
	d := model.DateOf(t)
	return d.AddDate(0, 0, 1-d.Day())
}
