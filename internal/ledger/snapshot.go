package ledger

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/model"
)

// Snapshot column names, in export order.
const (
	ColDate        = "date"
	ColDayOfWeek   = "day_of_week"
	ColWeather     = "weather_description"
	ColTempMax     = "temperature_max"
	ColItemName    = "item_name"
	ColUnitPrice   = "price_per_item"
	ColVolume      = "volume"
	ColDrinkingDay = "drinking_day"
	ColNumber      = "number"
)

// Columns is the full export header.
var Columns = []string{
	ColDate, ColDayOfWeek, ColWeather, ColTempMax, ColItemName,
	ColUnitPrice, ColVolume, ColDrinkingDay, ColNumber,
}

var requiredColumns = Columns[:7]

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrMalformedSnapshot is returned for a CSV that cannot be imported.
var ErrMalformedSnapshot = errors.New("ledger: malformed snapshot")

// WriteCSV writes entries as a UTF-8 CSV with a byte order mark, so that
// spreadsheet tools detect the encoding.
func WriteCSV(w io.Writer, entries []model.LedgerEntry) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("ledger: writing snapshot: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("ledger: writing snapshot: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write(encodeRow(e)); err != nil {
			return fmt.Errorf("ledger: writing snapshot: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("ledger: writing snapshot: %w", err)
	}
	return nil
}

func encodeRow(e model.LedgerEntry) []string {
	price := ""
	if e.UnitPrice.Valid {
		price = e.UnitPrice.Decimal.String()
	}
	number := ""
	if e.Suggested != nil {
		number = strconv.Itoa(*e.Suggested)
	}
	return []string{
		e.Date.Format(model.DateLayout),
		e.Weekday.String(),
		e.WeatherDescription,
		strconv.FormatFloat(e.TempMax, 'f', -1, 64),
		e.ItemName,
		price,
		strconv.Itoa(e.VolumeMl),
		e.Tier.Symbol(),
		number,
	}
}

// ReadCSV parses a snapshot. Columns are matched by header name, so the
// seven-column and nine-column layouts both load, in any order. Entries come
// back without IDs.
func ReadCSV(r io.Reader) ([]model.LedgerEntry, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedSnapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedSnapshot, name)
		}
	}

	var entries []model.LedgerEntry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
		}
		if isBlank(rec) {
			continue
		}
		e, err := decodeRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedSnapshot, line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeRow(rec []string, cols map[string]int) (model.LedgerEntry, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var e model.LedgerEntry

	date, err := parseDate(field(ColDate))
	if err != nil {
		return e, err
	}
	e.Date = date
	e.Weekday = date.Weekday()
	if wd, ok := parseWeekday(field(ColDayOfWeek)); ok {
		e.Weekday = wd
	}

	e.WeatherDescription = field(ColWeather)
	e.ItemName = field(ColItemName)

	if s := field(ColTempMax); s != "" {
		if e.TempMax, err = strconv.ParseFloat(s, 64); err != nil {
			return e, fmt.Errorf("%s %q: %w", ColTempMax, s, err)
		}
	}
	if s := field(ColUnitPrice); s != "" && !strings.EqualFold(s, "nan") {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return e, fmt.Errorf("%s %q: %w", ColUnitPrice, s, err)
		}
		e.UnitPrice = decimal.NewNullDecimal(d)
	}
	if s := field(ColVolume); s != "" {
		if e.VolumeMl, err = parseWhole(s); err != nil {
			return e, fmt.Errorf("%s %q: %w", ColVolume, s, err)
		}
	}
	e.Tier = model.TierFromSymbol(field(ColDrinkingDay))
	if s := field(ColNumber); s != "" {
		n, err := parseWhole(s)
		if err != nil {
			return e, fmt.Errorf("%s %q: %w", ColNumber, s, err)
		}
		e.Suggested = &n
	}
	return e, nil
}

// parseDate accepts a bare date or a timestamp whose date part leads.
func parseDate(s string) (time.Time, error) {
	if len(s) >= len(model.DateLayout) {
		if t, err := model.ParseDate(s[:len(model.DateLayout)]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s %q: not a YYYY-MM-DD date", ColDate, s)
}

func parseWeekday(s string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, true
		}
	}
	return 0, false
}

// parseWhole reads an integer that may have been written as a float
// ("350.0").
func parseWhole(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
