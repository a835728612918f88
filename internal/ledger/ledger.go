// Package ledger holds the ordered list of confirmed purchases and its CSV
// snapshot format.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/theirongolddev/brewburn/internal/model"
)

var (
	// ErrOutOfRange is returned by RemoveAt for an index outside the ledger.
	ErrOutOfRange = errors.New("ledger: index out of range")
	// ErrNotFound is returned when no entry has the requested ID.
	ErrNotFound = errors.New("ledger: entry not found")
	// ErrAmbiguous is returned when an ID prefix matches several entries.
	ErrAmbiguous = errors.New("ledger: ambiguous id prefix")
	// ErrEmpty is returned by RemoveLast on an empty ledger.
	ErrEmpty = errors.New("ledger: empty")
)

// Ledger is an append-only sequence of entries in insertion order. The zero
// value is empty and ready to use. It is not safe for concurrent use.
type Ledger struct {
	entries []model.LedgerEntry
	newID   func() string
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{newID: uuid.NewString}
}

// Append adds e at the end, assigning an ID if it has none, and returns the
// stored entry.
func (l *Ledger) Append(e model.LedgerEntry) model.LedgerEntry {
	if e.ID == "" {
		e.ID = l.nextID()
	}
	e.Date = model.DateOf(e.Date)
	l.entries = append(l.entries, e)
	return e
}

func (l *Ledger) nextID() string {
	if l.newID == nil {
		return uuid.NewString()
	}
	return l.newID()
}

// RemoveAt deletes the entry at index i. Later entries shift down by one, so
// an index is only meaningful until the next mutation; prefer Remove.
// An out-of-range index leaves the ledger unchanged.
func (l *Ledger) RemoveAt(i int) (model.LedgerEntry, error) {
	if i < 0 || i >= len(l.entries) {
		return model.LedgerEntry{}, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(l.entries))
	}
	removed := l.entries[i]
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return removed, nil
}

// Remove deletes the entry with the given ID.
func (l *Ledger) Remove(id string) (model.LedgerEntry, error) {
	for i, e := range l.entries {
		if e.ID == id {
			return l.RemoveAt(i)
		}
	}
	return model.LedgerEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// RemoveLast deletes the most recently appended entry.
func (l *Ledger) RemoveLast() (model.LedgerEntry, error) {
	if len(l.entries) == 0 {
		return model.LedgerEntry{}, ErrEmpty
	}
	return l.RemoveAt(len(l.entries) - 1)
}

// Lookup resolves a full ID or a unique ID prefix to its entry.
func (l *Ledger) Lookup(prefix string) (model.LedgerEntry, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return model.LedgerEntry{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	var (
		match model.LedgerEntry
		found int
	)
	for _, e := range l.entries {
		if e.ID == prefix {
			return e, nil
		}
		if strings.HasPrefix(e.ID, prefix) {
			match = e
			found++
		}
	}
	switch found {
	case 0:
		return model.LedgerEntry{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return match, nil
	default:
		return model.LedgerEntry{}, fmt.Errorf("%w: %s matches %d entries", ErrAmbiguous, prefix, found)
	}
}

// All returns a copy of the entries in order.
func (l *Ledger) All() []model.LedgerEntry {
	out := make([]model.LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// LoadFromSnapshot replaces the whole ledger with rows. Rows without an ID
// are given one.
func (l *Ledger) LoadFromSnapshot(rows []model.LedgerEntry) {
	l.entries = make([]model.LedgerEntry, 0, len(rows))
	for _, r := range rows {
		l.Append(r)
	}
}

// ToSnapshot exports the entries verbatim, in order.
func (l *Ledger) ToSnapshot() []model.LedgerEntry {
	return l.All()
}
