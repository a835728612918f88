// Package recommend derives per-day drinking suggestions from a forecast.
package recommend

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/brewburn/internal/model"
)

// MaxWindow is the longest window Recommend accepts.
const MaxWindow = 7

// Suggested counts per tier.
const (
	PeakCount   = 2
	NormalCount = 1
	LowCount    = 0
)

// ErrWindowSize is returned for an empty window or one longer than MaxWindow.
var ErrWindowSize = errors.New("recommend: window must hold 1 to 7 days")

// Recommend classifies each day by its maximum temperature relative to the
// rest of the window: the hottest day(s) are Peak and the coolest Low, with
// everything between Normal. Ties share a tier, and Peak is checked first, so a window with
// a single temperature is all Peak. Output order follows input order.
func Recommend(days []model.WeatherDay) (model.Week, error) {
	if len(days) == 0 || len(days) > MaxWindow {
		return model.Week{}, fmt.Errorf("%w (got %d)", ErrWindowSize, len(days))
	}

	maxTemp, minTemp := days[0].TempMax, days[0].TempMax
	for _, d := range days[1:] {
		maxTemp = max(maxTemp, d.TempMax)
		minTemp = min(minTemp, d.TempMax)
	}

	week := model.Week{Entries: make([]model.RecommendationEntry, 0, len(days))}
	for _, d := range days {
		tier, count := model.TierNormal, NormalCount
		switch d.TempMax {
		case maxTemp:
			tier, count = model.TierPeak, PeakCount
		case minTemp:
			tier, count = model.TierLow, LowCount
		}
		week.Entries = append(week.Entries, model.RecommendationEntry{
			Date:           d.Date,
			Weekday:        d.Weekday,
			TempMax:        d.TempMax,
			Description:    d.Description,
			Tier:           tier,
			SuggestedCount: count,
		})
		week.Total += count
	}
	return week, nil
}
