// Package model holds the data types shared across brewburn's packages.
package model

import "time"

// DateLayout is the civil date format used in snapshots, flags and the store.
const DateLayout = "2006-01-02"

// WeatherDay is one normalized day of a forecast window.
type WeatherDay struct {
	Date        time.Time
	Weekday     time.Weekday
	RawCode     int
	Category    int
	Description string
	TempMax     float64
}

// DateOf truncates t to its calendar date, expressed as midnight UTC.
// Every date in the model is carried this way so that equality and
// window comparisons never depend on the local zone.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
