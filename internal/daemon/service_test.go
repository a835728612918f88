package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/ledger"
	"github.com/theirongolddev/brewburn/internal/model"
)

type fakeSource struct {
	entries     []model.LedgerEntry
	loadErr     error
	forecastErr error
}

func (f *fakeSource) LoadLedger() (*ledger.Ledger, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	l := ledger.New()
	l.LoadFromSnapshot(f.entries)
	return l, nil
}

func (f *fakeSource) Budgets(entries []model.LedgerEntry) (model.BudgetPeriod, model.BudgetPeriod) {
	spent := decimal.Zero
	for _, e := range entries {
		spent = spent.Add(e.Cost())
	}
	monthly := model.BudgetPeriod{Label: "2026-10", Budget: decimal.NewFromInt(5000), Spent: spent, Entries: len(entries)}
	weekly := model.BudgetPeriod{Label: "week", Budget: decimal.NewFromInt(1250), Spent: spent, Entries: len(entries)}
	return monthly, weekly
}

func (f *fakeSource) Forecast(_ context.Context, start time.Time) ([]model.WeatherDay, model.Week, error) {
	if f.forecastErr != nil {
		return nil, model.Week{}, f.forecastErr
	}
	d := model.DateOf(start)
	week := model.Week{
		Entries: []model.RecommendationEntry{
			{Date: d, Weekday: d.Weekday(), TempMax: 28, Description: "晴れ", Tier: model.TierPeak, SuggestedCount: 2},
			{Date: d.AddDate(0, 0, 1), Weekday: d.AddDate(0, 0, 1).Weekday(), TempMax: 12, Description: "雨", Tier: model.TierLow},
		},
		Total: 2,
	}
	return nil, week, nil
}

func entry(price int64) model.LedgerEntry {
	return model.LedgerEntry{
		Date:      time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
		ItemName:  "test beer",
		UnitPrice: decimal.NewNullDecimal(decimal.NewFromInt(price)),
	}
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Entries: 3,
		Monthly: Period{Spent: decimal.NewFromInt(600)},
		Weekly:  Period{Spent: decimal.NewFromInt(200)},
	}
	curr := Snapshot{
		Entries: 4,
		Monthly: Period{Spent: decimal.NewFromInt(840)},
		Weekly:  Period{Spent: decimal.NewFromInt(440)},
	}

	delta := diffSnapshots(prev, curr)
	if delta.Entries != 1 {
		t.Fatalf("Entries delta = %d, want 1", delta.Entries)
	}
	if !delta.MonthlySpent.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("MonthlySpent delta = %s, want 240", delta.MonthlySpent)
	}
	if !delta.WeeklySpent.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("WeeklySpent delta = %s, want 240", delta.WeeklySpent)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots should produce a zero delta")
	}
}

func TestEventRingBuffer(t *testing.T) {
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 2}, &fakeSource{})

	s.mu.Lock()
	defer s.mu.Unlock()
	for range 3 {
		s.emitLocked(Event{Type: "snapshot"})
	}

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollOnceEmitsSpendDelta(t *testing.T) {
	src := &fakeSource{entries: []model.LedgerEntry{entry(170)}}
	s := New(Config{}, src)

	s.pollOnce()
	s.pollOnce() // unchanged ledger, no event

	src.entries = append(src.entries, entry(240))
	s.pollOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].Type != "snapshot" {
		t.Fatalf("first event type = %q, want snapshot", s.events[0].Type)
	}
	ev := s.events[1]
	if ev.Type != "spend_delta" {
		t.Fatalf("second event type = %q, want spend_delta", ev.Type)
	}
	if ev.Delta == nil || ev.Delta.Entries != 1 || !ev.Delta.MonthlySpent.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("delta = %+v, want one entry costing 240", ev.Delta)
	}
	if s.pollCount != 3 {
		t.Fatalf("pollCount = %d, want 3", s.pollCount)
	}
}

func TestPollOnceRecordsError(t *testing.T) {
	s := New(Config{}, &fakeSource{loadErr: errors.New("database is locked")})
	s.pollOnce()

	st := s.snapshotStatus()
	if st.LastError != "database is locked" {
		t.Fatalf("LastError = %q, want %q", st.LastError, "database is locked")
	}
	if st.EventCount != 0 {
		t.Fatalf("EventCount = %d, want 0", st.EventCount)
	}
}

func TestForecastEndpoint(t *testing.T) {
	s := New(Config{}, &fakeSource{})
	s.now = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/forecast")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status before refresh = %d, want 503", resp.StatusCode)
	}

	s.refreshForecast(context.Background())

	resp, err = http.Get(srv.URL + "/v1/forecast")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var fc Forecast
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		t.Fatal(err)
	}
	if len(fc.Days) != 2 || fc.Total != 2 {
		t.Fatalf("forecast = %+v, want 2 days totalling 2", fc)
	}
	if fc.Days[0].Date != "2026-10-17" || fc.Days[0].Symbol != "◎" {
		t.Fatalf("first day = %+v, want 2026-10-17 ◎", fc.Days[0])
	}
}

func TestForecastErrorKeepsPrevious(t *testing.T) {
	src := &fakeSource{}
	s := New(Config{}, src)
	s.refreshForecast(context.Background())

	src.forecastErr = errors.New("data unavailable")
	s.refreshForecast(context.Background())

	st := s.snapshotStatus()
	if st.ForecastError != "data unavailable" {
		t.Fatalf("ForecastError = %q", st.ForecastError)
	}
	if st.ForecastAt.IsZero() {
		t.Fatal("previous forecast should be kept after a failed refresh")
	}
}

func TestConcurrentEventsReachSubscribersInOrder(t *testing.T) {
	src := &fakeSource{entries: []model.LedgerEntry{entry(170)}}
	s := New(Config{EventsBuffer: 500}, src)

	ch := make(chan Event, 500)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.refreshForecast(context.Background())
		}()
		go func() {
			defer wg.Done()
			s.pollOnce()
		}()
	}
	wg.Wait()
	close(ch)

	var last int64
	n := 0
	for ev := range ch {
		if ev.ID <= last {
			t.Fatalf("event %d (%s) delivered after event %d", ev.ID, ev.Type, last)
		}
		last = ev.ID
		n++
	}
	// 50 forecasts plus the first snapshot; later polls see no change.
	if n != 51 {
		t.Fatalf("received %d events, want 51", n)
	}
}
