package tui

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/brewburn/internal/config"
	"github.com/theirongolddev/brewburn/internal/ledger"
	"github.com/theirongolddev/brewburn/internal/model"
	"github.com/theirongolddev/brewburn/internal/pipeline"
)

func testApp(t *testing.T, names ...string) App {
	t.Helper()
	svc, err := pipeline.New(config.DefaultConfig(), nil, pipeline.Options{})
	require.NoError(t, err)

	l := ledger.New()
	for _, n := range names {
		l.Append(model.LedgerEntry{
			Date:      time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
			ItemName:  n,
			UnitPrice: decimal.NewNullDecimal(decimal.NewFromInt(200)),
		})
	}

	a := NewApp(svc, config.DefaultConfig(), t.TempDir()+"/config.toml", pipeline.Options{})
	a.needSetup = false
	a.width, a.height = 120, 40
	m, _ := a.Update(LedgerMsg{Ledger: l})
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var m tea.Model
		m, cmd = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		a = m.(App)
	}
	return a, cmd
}

func TestLedgerMsgComputesBudgets(t *testing.T) {
	a := testApp(t, "lager", "stout")
	assert.True(t, a.loaded)
	assert.Len(t, a.history, 1)
	assert.True(t, a.history[0].Spent.Equal(decimal.NewFromInt(400)))
}

func TestRemoveSelectedNeedsConfirmation(t *testing.T) {
	a := testApp(t, "lager", "stout", "ipa")
	a, _ = press(t, a, "l", "j") // ledger tab, second row

	a, cmd := press(t, a, "d")
	require.NotNil(t, a.pending)
	assert.Equal(t, "stout", a.pending.entry.ItemName)
	assert.Nil(t, cmd)

	a, cmd = press(t, a, "y")
	assert.Nil(t, a.pending)
	require.Equal(t, 2, a.ledger.Len())
	for _, e := range a.ledger.All() {
		assert.NotEqual(t, "stout", e.ItemName)
	}

	require.NotNil(t, cmd)
	saved, ok := cmd().(SavedMsg)
	require.True(t, ok)
	assert.NoError(t, saved.Err)
	assert.Equal(t, "stout", saved.Removed.ItemName)
}

func TestRemoveCancelled(t *testing.T) {
	a := testApp(t, "lager", "stout")
	a, _ = press(t, a, "l", "u", "n")
	assert.Nil(t, a.pending)
	assert.Equal(t, 2, a.ledger.Len())
}

func TestUndoRemovesLastEntry(t *testing.T) {
	a := testApp(t, "lager", "stout")
	a, _ = press(t, a, "l", "u")
	require.NotNil(t, a.pending)
	assert.True(t, a.pending.last)

	a, _ = press(t, a, "y")
	require.Equal(t, 1, a.ledger.Len())
	assert.Equal(t, "lager", a.ledger.All()[0].ItemName)
}

func TestCursorClampsAfterRemoval(t *testing.T) {
	a := testApp(t, "lager", "stout")
	a, _ = press(t, a, "l", "G")
	assert.Equal(t, 1, a.cursor)

	a, _ = press(t, a, "d", "y")
	assert.Equal(t, 0, a.cursor)
}

func TestStaleForecastIgnored(t *testing.T) {
	a := testApp(t)
	stale := a.start.AddDate(0, 0, -7)
	m, _ := a.Update(ForecastMsg{Start: stale, Week: model.Week{Total: 9}})
	a = m.(App)
	assert.True(t, a.fetching)
	assert.Zero(t, a.week.Total)

	m, _ = a.Update(ForecastMsg{Start: a.start, Week: model.Week{Total: 5}})
	a = m.(App)
	assert.False(t, a.fetching)
	assert.Equal(t, 5, a.week.Total)
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := SetupValuesFrom(cfg)
	v.Latitude = "43.06"
	v.Longitude = "141.35"
	v.Monthly = "8000"
	v.Theme = "amber"

	require.NoError(t, v.Apply(&cfg))
	assert.InDelta(t, 43.06, cfg.Location.Latitude, 1e-9)
	assert.Equal(t, int64(8000), cfg.Budget.Monthly)
	assert.Equal(t, "amber", cfg.Appearance.Theme)

	v.Latitude = "north"
	assert.Error(t, v.Apply(&cfg))
}

func TestSetupValidation(t *testing.T) {
	assert.NoError(t, validateMonthly("5000"))
	assert.Error(t, validateMonthly("500"))
	assert.Error(t, validateMonthly("20000"))
	assert.Error(t, validatePositive("0"))
	assert.Error(t, validatePositive("abc"))
	assert.NoError(t, floatIn(-90, 90)("35.5"))
	assert.Error(t, floatIn(-90, 90)("91"))
}
