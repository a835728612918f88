package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/model"
)

// Selection is a candidate purchase awaiting confirmation: the weather of
// the chosen day, its recommendation when one was computed, and the parsed
// item. It carries no ID until it is appended.
type Selection struct {
	Day            model.WeatherDay
	Recommendation *model.RecommendationEntry
	Item           model.RetailItem
}

// Entry builds the ledger entry the selection confirms into.
func (s Selection) Entry() model.LedgerEntry {
	e := model.LedgerEntry{
		Date:               model.DateOf(s.Day.Date),
		Weekday:            s.Day.Weekday,
		WeatherDescription: s.Day.Description,
		TempMax:            s.Day.TempMax,
		ItemName:           s.Item.Name,
		UnitPrice:          decimal.NewNullDecimal(s.Item.UnitPrice),
		VolumeMl:           s.Item.VolumeMl,
	}
	if r := s.Recommendation; r != nil {
		e.Tier = r.Tier
		n := r.SuggestedCount
		e.Suggested = &n
	}
	return e
}

// Confirm appends the selection to l and returns the stored entry.
func (l *Ledger) Confirm(s Selection) model.LedgerEntry {
	return l.Append(s.Entry())
}
