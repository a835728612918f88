package model

import "time"

// Tier classifies a day of a forecast window by its temperature.
type Tier string

const (
	TierPeak   Tier = "peak"
	TierLow    Tier = "low"
	TierNormal Tier = "normal"
)

var tierSymbols = map[Tier]string{
	TierPeak:   "◎",
	TierLow:    "△",
	TierNormal: "〇",
}

// Symbol returns the marker shown next to a day, or "" for an unset tier.
func (t Tier) Symbol() string {
	return tierSymbols[t]
}

// TierFromSymbol is the inverse of Symbol. It accepts the symbol or the
// tier name and returns "" for anything else.
func TierFromSymbol(s string) Tier {
	for tier, sym := range tierSymbols {
		if s == sym || s == string(tier) {
			return tier
		}
	}
	return ""
}

// RecommendationEntry is the suggestion for one day.
type RecommendationEntry struct {
	Date           time.Time
	Weekday        time.Weekday
	TempMax        float64
	Description    string
	Tier           Tier
	SuggestedCount int
}

// Week is the recommendation table for one forecast window.
type Week struct {
	Entries []RecommendationEntry
	Total   int
}

// Find returns the entry for date, if the week covers it.
func (w Week) Find(date time.Time) (RecommendationEntry, bool) {
	date = DateOf(date)
	for _, e := range w.Entries {
		if e.Date.Equal(date) {
			return e, true
		}
	}
	return RecommendationEntry{}, false
}
