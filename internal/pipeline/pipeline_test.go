package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/brewburn/internal/config"
	"github.com/theirongolddev/brewburn/internal/model"
	"github.com/theirongolddev/brewburn/internal/retail"
	"github.com/theirongolddev/brewburn/internal/store"
)

const weekJSON = `{"daily":{
	"time":["2024-07-01","2024-07-02","2024-07-03","2024-07-04","2024-07-05","2024-07-06","2024-07-07"],
	"weather_code":[0,3,61,2,95,1,0],
	"temperature_2m_max":[10,12,15,18,22,19,14]}}`

func newTestService(t *testing.T, appID string) *Service {
	t.Helper()
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(weekJSON))
	}))
	t.Cleanup(weatherSrv.Close)
	retailSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Items":[{"Item":{"itemName":"Lager 350ml 24本","itemPrice":4800}}]}`))
	}))
	t.Cleanup(retailSrv.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "brewburn.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	t.Setenv("RAKUTEN_APP_ID", appID)
	cfg := config.DefaultConfig()
	cfg.Fetch.BackoffBaseMs = 1

	svc, err := New(cfg, st, Options{WeatherURL: weatherSrv.URL, RetailURL: retailSrv.URL})
	require.NoError(t, err)
	return svc
}

func TestForecast(t *testing.T) {
	svc := newTestService(t, "app")
	days, week, err := svc.Forecast(context.Background(), time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, days, 7)
	assert.Equal(t, 7, week.Total)
	assert.Equal(t, model.TierPeak, week.Entries[4].Tier)
	assert.Equal(t, "雷雨", week.Entries[4].Description)
}

func TestStageConfirmAndPersist(t *testing.T) {
	svc := newTestService(t, "app")
	ctx := context.Background()

	sel, err := svc.Stage(ctx, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), "lager")
	require.NoError(t, err)
	assert.Equal(t, 24, sel.Item.UnitCount)
	assert.Equal(t, "晴れ", sel.Day.Description)
	require.NotNil(t, sel.Recommendation)
	assert.Equal(t, model.TierLow, sel.Recommendation.Tier)

	l, err := svc.LoadLedger()
	require.NoError(t, err)
	stored := l.Confirm(sel)
	require.NoError(t, svc.SaveLedger(l))

	reloaded, err := svc.LoadLedger()
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.Len())
	got := reloaded.All()[0]
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, "200", got.UnitPrice.Decimal.String())
	require.NotNil(t, got.Suggested)
	assert.Equal(t, 0, *got.Suggested)
}

func TestSearchWithoutAppID(t *testing.T) {
	svc := newTestService(t, "")
	svc.Retail = nil

	_, err := svc.Stage(context.Background(), time.Now(), "lager")
	assert.True(t, errors.Is(err, retail.ErrNoApplicationID))

	// Forecasts still work.
	_, _, err = svc.Forecast(context.Background(), time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
}

func TestPlan(t *testing.T) {
	svc := newTestService(t, "app")
	plan, err := svc.Plan(context.Background(), time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 7,
		decimal.NewFromInt(250), decimal.NewFromInt(3500))
	require.NoError(t, err)
	require.Len(t, plan.Days, 7)
	assert.True(t, plan.TotalCost.LessThanOrEqual(decimal.NewFromInt(3500)))
}

func TestBudgets(t *testing.T) {
	svc := newTestService(t, "app")
	now := time.Date(2024, 7, 3, 12, 0, 0, 0, time.UTC)
	svc.Projector.Now = func() time.Time { return now }

	entries := []model.LedgerEntry{{
		Date:      time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
		UnitPrice: decimal.NewNullDecimal(decimal.NewFromInt(300)),
	}}
	monthly, weekly := svc.Budgets(entries)
	assert.Equal(t, "4700", monthly.Remaining.String())
	assert.Equal(t, "950", weekly.Remaining.String())
}
