// Package pipeline wires the fetch, weather, retail, recommendation, ledger
// and budget packages into the flows the commands and the TUI run.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/budget"
	"github.com/theirongolddev/brewburn/internal/config"
	"github.com/theirongolddev/brewburn/internal/fetch"
	"github.com/theirongolddev/brewburn/internal/ledger"
	"github.com/theirongolddev/brewburn/internal/model"
	"github.com/theirongolddev/brewburn/internal/recommend"
	"github.com/theirongolddev/brewburn/internal/retail"
	"github.com/theirongolddev/brewburn/internal/store"
	"github.com/theirongolddev/brewburn/internal/weather"
)

// Service runs brewburn's flows against one store.
type Service struct {
	Weather   *weather.Client
	Retail    *retail.Client // nil when no application ID is configured
	Store     *store.Store
	Projector *budget.Projector
	Monthly   decimal.Decimal
	Weekly    decimal.Decimal
}

// Options adjusts New.
type Options struct {
	// NoCache disables response caching entirely.
	NoCache bool
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	// WeatherURL and RetailURL override the provider endpoints.
	WeatherURL string
	RetailURL  string
}

// New builds a Service from cfg. st may be nil, in which case responses are
// cached in memory only and the ledger cannot be persisted.
func New(cfg config.Config, st *store.Store, opts Options) (*Service, error) {
	table, err := cfg.Weather.DescriptionTable()
	if err != nil {
		return nil, err
	}

	var cache fetch.Cache = fetch.SharedCache
	if st != nil && cfg.Fetch.PersistentCache {
		cache = st.Responses()
	}
	fc := fetch.NewClient(fetch.Options{
		HTTPClient:  opts.HTTPClient,
		Cache:       cache,
		TTL:         cfg.Fetch.CacheTTL(),
		MaxAttempts: cfg.Fetch.MaxAttempts,
		BaseDelay:   cfg.Fetch.BackoffBase(),
		Timeout:     cfg.Fetch.Timeout(),
		NoCache:     opts.NoCache,
	})

	return &Service{
		Weather: weather.NewClient(fc, weather.Options{
			BaseURL:   opts.WeatherURL,
			Latitude:  cfg.Location.Latitude,
			Longitude: cfg.Location.Longitude,
			Timezone:  cfg.Location.Timezone,
			Table:     table,
		}),
		Retail: retail.NewClient(fc, config.GetApplicationID(cfg), retail.Options{
			BaseURL:       opts.RetailURL,
			KeywordPrefix: cfg.Retail.KeywordPrefix,
			NGKeyword:     cfg.Retail.NGKeyword,
		}),
		Store:     st,
		Projector: budget.NewProjector(cfg.Budget.PriceTiers()),
		Monthly:   cfg.Budget.MonthlyBudget(),
		Weekly:    cfg.Budget.WeeklyBudget(),
	}, nil
}

// Forecast fetches the seven days from start and recommends against them.
func (s *Service) Forecast(ctx context.Context, start time.Time) ([]model.WeatherDay, model.Week, error) {
	days, err := s.Weather.Week(ctx, start)
	if err != nil {
		return nil, model.Week{}, err
	}
	week, err := recommend.Recommend(days)
	if err != nil {
		return nil, model.Week{}, err
	}
	return days, week, nil
}

// Plan fetches days of forecast from start and spreads budget across them.
func (s *Service) Plan(ctx context.Context, start time.Time, days int, unitPrice, total decimal.Decimal) (recommend.Plan, error) {
	window, err := s.Weather.Window(ctx, start, days)
	if err != nil {
		return recommend.Plan{}, err
	}
	return recommend.Allocate(window, unitPrice, total)
}

// Search finds and parses the top item for keyword.
func (s *Service) Search(ctx context.Context, keyword string) (model.RetailItem, error) {
	return s.Retail.Search(ctx, keyword)
}

// Stage searches for keyword and pairs the result with date's weather.
func (s *Service) Stage(ctx context.Context, date time.Time, keyword string) (ledger.Selection, error) {
	item, err := s.Search(ctx, keyword)
	if err != nil {
		return ledger.Selection{}, err
	}
	return s.StageItem(ctx, date, item)
}

// StageItem pairs item with the weather of date and, when the week from
// date can be recommended, date's recommendation.
func (s *Service) StageItem(ctx context.Context, date time.Time, item model.RetailItem) (ledger.Selection, error) {
	days, week, err := s.Forecast(ctx, date)
	if err != nil {
		return ledger.Selection{}, fmt.Errorf("weather for %s: %w", model.DateOf(date).Format(model.DateLayout), err)
	}
	sel := ledger.Selection{Day: days[0], Item: item}
	if rec, ok := week.Find(date); ok {
		sel.Recommendation = &rec
	}
	return sel, nil
}

// LoadLedger reads the persisted ledger.
func (s *Service) LoadLedger() (*ledger.Ledger, error) {
	l := ledger.New()
	if s.Store == nil {
		return l, nil
	}
	entries, err := s.Store.LoadLedger()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	l.LoadFromSnapshot(entries)
	return l, nil
}

// SaveLedger persists l.
func (s *Service) SaveLedger(l *ledger.Ledger) error {
	if s.Store == nil {
		return nil
	}
	if err := s.Store.SaveLedger(l.ToSnapshot()); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	return nil
}

// Budgets projects entries against the monthly and weekly budgets.
func (s *Service) Budgets(entries []model.LedgerEntry) (monthly, weekly model.BudgetPeriod) {
	return s.Projector.ProjectMonthly(entries, s.Monthly), s.Projector.ProjectWeekly(entries, s.Weekly)
}
