// Package daemon provides the long-running budget monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/ledger"
	"github.com/theirongolddev/brewburn/internal/model"
)

// Source is what the daemon polls. *pipeline.Service satisfies it.
type Source interface {
	LoadLedger() (*ledger.Ledger, error)
	Budgets(entries []model.LedgerEntry) (monthly, weekly model.BudgetPeriod)
	Forecast(ctx context.Context, start time.Time) ([]model.WeatherDay, model.Week, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	// ForecastSchedule is a six-field cron spec (seconds first). Empty
	// disables scheduled forecast refreshes.
	ForecastSchedule string
}

// Period is the JSON form of a budget window.
type Period struct {
	Label     string          `json:"label"`
	Budget    decimal.Decimal `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Entries   int             `json:"entries"`
	Exhausted bool            `json:"exhausted"`
	Drinks    []Drinks        `json:"drinks,omitempty"`
}

// Drinks is how many units of one tier the remaining budget buys.
type Drinks struct {
	Tier  string `json:"tier"`
	Count int64  `json:"count"`
}

// Snapshot is a compact ledger state for status/event payloads.
type Snapshot struct {
	At      time.Time `json:"at"`
	Entries int       `json:"entries"`
	Monthly Period    `json:"monthly"`
	Weekly  Period    `json:"weekly"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Entries      int             `json:"entries"`
	MonthlySpent decimal.Decimal `json:"monthly_spent"`
	WeeklySpent  decimal.Decimal `json:"weekly_spent"`
}

func (d Delta) isZero() bool {
	return d.Entries == 0 && d.MonthlySpent.IsZero() && d.WeeklySpent.IsZero()
}

// ForecastDay is one row of /v1/forecast.
type ForecastDay struct {
	Date        string  `json:"date"`
	Weekday     string  `json:"weekday"`
	Description string  `json:"description"`
	TempMax     float64 `json:"temp_max"`
	Tier        string  `json:"tier"`
	Symbol      string  `json:"symbol"`
	Suggested   int     `json:"suggested"`
}

// Forecast is the last fetched recommendation week.
type Forecast struct {
	FetchedAt time.Time     `json:"fetched_at"`
	Days      []ForecastDay `json:"days"`
	Total     int           `json:"total"`
}

// Event is emitted whenever the snapshot or the forecast updates.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     *Delta    `json:"delta,omitempty"`
	Forecast  *Forecast `json:"forecast,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	ForecastAt      time.Time `json:"forecast_at"`
	ForecastError   string    `json:"forecast_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	src Source
	now func() time.Time

	mu            sync.RWMutex
	startedAt     time.Time
	lastPollAt    time.Time
	pollCount     int64
	lastError     string
	hasSnapshot   bool
	snapshot      Snapshot
	forecast      *Forecast
	forecastError string
	nextEventID   int64
	events        []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service polling src.
func New(cfg Config, src Source) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}

	return &Service{
		cfg:       cfg,
		src:       src,
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/forecast", s.handleForecast)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints, ledger polling and the forecast schedule until
// ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sched := cron.New(cron.WithSeconds())
	if s.cfg.ForecastSchedule != "" {
		if _, err := sched.AddFunc(s.cfg.ForecastSchedule, func() { s.refreshForecast(ctx) }); err != nil {
			return fmt.Errorf("forecast schedule %q: %w", s.cfg.ForecastSchedule, err)
		}
	}
	sched.Start()
	defer sched.Stop()

	s.pollOnce()
	go s.refreshForecast(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	now := s.now()
	l, err := s.src.LoadLedger()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		slog.Error("daemon poll failed", "error", err)
		return
	}

	entries := l.All()
	monthly, weekly := s.src.Budgets(entries)
	snap := Snapshot{
		At:      now,
		Entries: len(entries),
		Monthly: periodOf(monthly),
		Weekly:  periodOf(weekly),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.emitLocked(Event{Type: "snapshot", Timestamp: now, Snapshot: snap})
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.emitLocked(Event{Type: "spend_delta", Timestamp: now, Snapshot: snap, Delta: &delta})
	}
}

func (s *Service) refreshForecast(ctx context.Context) {
	now := s.now()
	_, week, err := s.src.Forecast(ctx, now)

	s.mu.Lock()
	if err != nil {
		s.forecastError = err.Error()
		s.mu.Unlock()
		slog.Warn("daemon forecast refresh failed", "error", err)
		return
	}
	fc := forecastOf(week, now)
	s.forecast = &fc
	s.forecastError = ""
	s.emitLocked(Event{Type: "forecast", Timestamp: now, Snapshot: s.snapshot, Forecast: &fc})
	s.mu.Unlock()

	slog.Info("forecast refreshed", "days", len(fc.Days), "suggested", fc.Total)
}

func periodOf(p model.BudgetPeriod) Period {
	out := Period{
		Label:     p.Label,
		Budget:    p.Budget,
		Spent:     p.Spent,
		Remaining: p.Remaining,
		Entries:   p.Entries,
		Exhausted: p.Exhausted,
	}
	for _, tc := range p.TierCounts {
		out.Drinks = append(out.Drinks, Drinks{Tier: tc.Name, Count: tc.Count})
	}
	return out
}

func forecastOf(week model.Week, at time.Time) Forecast {
	fc := Forecast{FetchedAt: at, Total: week.Total}
	for _, e := range week.Entries {
		fc.Days = append(fc.Days, ForecastDay{
			Date:        e.Date.Format(model.DateLayout),
			Weekday:     e.Weekday.String(),
			Description: e.Description,
			TempMax:     e.TempMax,
			Tier:        string(e.Tier),
			Symbol:      e.Tier.Symbol(),
			Suggested:   e.SuggestedCount,
		})
	}
	return fc
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Entries:      curr.Entries - prev.Entries,
		MonthlySpent: curr.Monthly.Spent.Sub(prev.Monthly.Spent),
		WeeklySpent:  curr.Weekly.Spent.Sub(prev.Weekly.Spent),
	}
}

// emitLocked numbers ev and publishes it. Callers hold s.mu, so subscribers
// see IDs in increasing order.
func (s *Service) emitLocked(ev Event) {
	s.nextEventID++
	ev.ID = s.nextEventID
	s.appendLocked(ev)
}

func (s *Service) appendLocked(ev Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		ForecastError:   s.forecastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
	if s.forecast != nil {
		st.ForecastAt = s.forecast.FetchedAt
	}
	return st
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleForecast(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	fc := s.forecast
	s.mu.RUnlock()

	if fc == nil {
		http.Error(w, "forecast not available yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(fc)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	current := Event{
		Type:      "snapshot",
		Timestamp: s.now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
