package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/brewburn/internal/model"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
}

func entry(name string, price int64) model.LedgerEntry {
	date := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)
	return model.LedgerEntry{
		Date:               date,
		Weekday:            date.Weekday(),
		WeatherDescription: "晴れ",
		TempMax:            28.5,
		ItemName:           name,
		UnitPrice:          decimal.NewNullDecimal(decimal.NewFromInt(price)),
		VolumeMl:           350,
	}
}

func names(entries []model.LedgerEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ItemName
	}
	return out
}

func TestAppend_AssignsIDs(t *testing.T) {
	l := &Ledger{newID: sequentialIDs()}
	a := l.Append(entry("a", 200))
	b := l.Append(entry("b", 200))
	kept := l.Append(model.LedgerEntry{ID: "custom", ItemName: "c"})

	assert.Equal(t, "id-01", a.ID)
	assert.Equal(t, "id-02", b.ID)
	assert.Equal(t, "custom", kept.ID)
	assert.Equal(t, 3, l.Len())
}

func TestAppend_AllowsDuplicates(t *testing.T) {
	l := New()
	l.Append(entry("same", 200))
	l.Append(entry("same", 200))
	assert.Equal(t, 2, l.Len())
	assert.NotEqual(t, l.All()[0].ID, l.All()[1].ID)
}

func TestRemoveAt_ShiftsIndices(t *testing.T) {
	l := New()
	for _, n := range []string{"a", "b", "c", "d"} {
		l.Append(entry(n, 100))
	}

	first, err := l.RemoveAt(1)
	require.NoError(t, err)
	second, err := l.RemoveAt(1)
	require.NoError(t, err)

	assert.Equal(t, "b", first.ItemName)
	assert.Equal(t, "c", second.ItemName)
	assert.Equal(t, []string{"a", "d"}, names(l.All()))
}

func TestRemoveAt_OutOfRange(t *testing.T) {
	l := New()
	l.Append(entry("a", 100))
	before := l.All()

	for _, i := range []int{-1, 1, 10} {
		_, err := l.RemoveAt(i)
		assert.ErrorIs(t, err, ErrOutOfRange, "index %d", i)
	}
	assert.Equal(t, before, l.All())
}

func TestRemove_ByID(t *testing.T) {
	l := &Ledger{newID: sequentialIDs()}
	l.Append(entry("a", 100))
	l.Append(entry("b", 100))
	l.Append(entry("c", 100))

	removed, err := l.Remove("id-02")
	require.NoError(t, err)
	assert.Equal(t, "b", removed.ItemName)

	// IDs stay valid after positions shift.
	removed, err = l.Remove("id-03")
	require.NoError(t, err)
	assert.Equal(t, "c", removed.ItemName)

	_, err = l.Remove("id-02")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"a"}, names(l.All()))
}

func TestRemoveLast(t *testing.T) {
	l := New()
	_, err := l.RemoveLast()
	assert.ErrorIs(t, err, ErrEmpty)

	l.Append(entry("a", 100))
	l.Append(entry("b", 100))
	removed, err := l.RemoveLast()
	require.NoError(t, err)
	assert.Equal(t, "b", removed.ItemName)
	assert.Equal(t, 1, l.Len())
}

func TestLookup(t *testing.T) {
	l := &Ledger{}
	l.Append(model.LedgerEntry{ID: "abc123", ItemName: "a"})
	l.Append(model.LedgerEntry{ID: "abd456", ItemName: "b"})

	e, err := l.Lookup("abc")
	require.NoError(t, err)
	assert.Equal(t, "a", e.ItemName)

	_, err = l.Lookup("ab")
	assert.ErrorIs(t, err, ErrAmbiguous)
	_, err = l.Lookup("zzz")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.Lookup("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAll_ReturnsCopy(t *testing.T) {
	l := New()
	l.Append(entry("a", 100))
	all := l.All()
	all[0].ItemName = "mutated"
	assert.Equal(t, "a", l.All()[0].ItemName)
}

func TestSnapshotRoundTrip(t *testing.T) {
	l := New()
	l.Append(entry("a", 100))
	l.Append(entry("b", 250))

	restored := New()
	restored.LoadFromSnapshot(l.ToSnapshot())
	assert.Equal(t, l.All(), restored.All())

	// Load replaces rather than merges.
	restored.LoadFromSnapshot([]model.LedgerEntry{entry("only", 1)})
	assert.Equal(t, []string{"only"}, names(restored.All()))
}

func TestConfirmSelection(t *testing.T) {
	day := model.WeatherDay{
		Date:        time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC),
		Weekday:     time.Friday,
		Description: "曇り",
		TempMax:     31,
	}
	rec := &model.RecommendationEntry{Tier: model.TierPeak, SuggestedCount: 2}
	item := model.RetailItem{
		Name:      "Lager 350ml 24本",
		Price:     decimal.NewFromInt(4800),
		UnitCount: 24,
		VolumeMl:  350,
		UnitPrice: decimal.NewFromInt(200),
	}

	l := New()
	e := l.Confirm(Selection{Day: day, Recommendation: rec, Item: item})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, time.Friday, e.Weekday)
	assert.Equal(t, "曇り", e.WeatherDescription)
	assert.Equal(t, "Lager 350ml 24本", e.ItemName)
	assert.True(t, e.UnitPrice.Valid)
	assert.Equal(t, "200", e.UnitPrice.Decimal.String())
	assert.Equal(t, model.TierPeak, e.Tier)
	require.NotNil(t, e.Suggested)
	assert.Equal(t, 2, *e.Suggested)
	assert.Equal(t, 1, l.Len())

	plain := Selection{Day: day, Item: item}.Entry()
	assert.Equal(t, model.Tier(""), plain.Tier)
	assert.Nil(t, plain.Suggested)
}
