// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/model"
)

// FormatYen formats an amount in yen with thousands separators and at most
// two decimals, e.g. 4800 -> "¥4,800", 207.5 -> "¥207.5".
func FormatYen(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatYen(d.Neg())
	}
	d = d.Round(2)
	if d.Equal(d.Truncate(0)) {
		return "¥" + humanize.Comma(d.IntPart())
	}
	return "¥" + humanize.CommafWithDigits(d.InexactFloat64(), 2)
}

// FormatNullYen formats an optional amount, "-" when missing.
func FormatNullYen(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return FormatYen(d.Decimal)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatTemp formats a temperature in °C with one decimal.
func FormatTemp(c float64) string {
	return strconv.FormatFloat(c, 'f', 1, 64) + "°C"
}

// FormatVolume formats a volume in ml, "-" when unknown.
func FormatVolume(ml int) string {
	if ml <= 0 {
		return "-"
	}
	return strconv.Itoa(ml) + "ml"
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats a spend delta with its sign.
func FormatDelta(current, previous decimal.Decimal) string {
	delta := current.Sub(previous)
	if delta.IsNegative() {
		return "-" + FormatYen(delta.Neg())
	}
	return "+" + FormatYen(delta)
}

// FormatDate formats a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatTier returns the tier symbol followed by its name, or "-".
func FormatTier(t model.Tier) string {
	if t == "" {
		return "-"
	}
	return t.Symbol() + " " + string(t)
}

// ShortID returns the first eight characters of an entry ID.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
