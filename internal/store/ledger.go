package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/model"
)

// SaveLedger replaces the stored ledger with entries, preserving order.
func (s *Store) SaveLedger(entries []model.LedgerEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM ledger_entries"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO ledger_entries
		(id, position, date, weekday, weather_description, temperature_max,
		 item_name, unit_price, volume_ml, tier, suggested, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, e := range entries {
		var suggested sql.NullInt64
		if e.Suggested != nil {
			suggested = sql.NullInt64{Int64: int64(*e.Suggested), Valid: true}
		}
		_, err := stmt.Exec(
			e.ID, i, e.Date.Format(model.DateLayout), int(e.Weekday), e.WeatherDescription, e.TempMax,
			e.ItemName, e.UnitPrice, e.VolumeMl, string(e.Tier), suggested, now,
		)
		if err != nil {
			return fmt.Errorf("saving entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// LoadLedger reads the stored ledger in order.
func (s *Store) LoadLedger() ([]model.LedgerEntry, error) {
	rows, err := s.db.Query(`SELECT id, date, weekday, weather_description, temperature_max,
		item_name, unit_price, volume_ml, tier, suggested
		FROM ledger_entries ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []model.LedgerEntry
	for rows.Next() {
		var (
			e         model.LedgerEntry
			date      string
			weekday   int
			weather   sql.NullString
			temp      sql.NullFloat64
			price     decimal.NullDecimal
			tier      sql.NullString
			suggested sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &date, &weekday, &weather, &temp,
			&e.ItemName, &price, &e.VolumeMl, &tier, &suggested); err != nil {
			return nil, err
		}

		e.Date, err = model.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		e.Weekday = time.Weekday(weekday)
		e.WeatherDescription = weather.String
		e.TempMax = temp.Float64
		e.UnitPrice = price
		e.Tier = model.Tier(tier.String)
		if suggested.Valid {
			n := int(suggested.Int64)
			e.Suggested = &n
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LedgerCount returns the number of stored entries.
func (s *Store) LedgerCount() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM ledger_entries").Scan(&n)
	return n, err
}
