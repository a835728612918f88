// Package retail searches the Rakuten Ichiba catalog and parses product
// names into model.RetailItem values.
package retail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/brewburn/internal/fetch"
	"github.com/theirongolddev/brewburn/internal/model"
)

const (
	DefaultBaseURL       = "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20170706"
	DefaultKeywordPrefix = "ビール"
	DefaultNGKeyword     = "ふるさと エントリー クーポン 倍"
)

var (
	// ErrNoApplicationID means no Rakuten application ID is configured.
	// Only retail search is unavailable in that case.
	ErrNoApplicationID = errors.New("retail: RAKUTEN_APP_ID not set")
	// ErrNoItems means the search matched nothing.
	ErrNoItems = errors.New("retail: no items found")
	// ErrEmptyKeyword is returned for a blank search.
	ErrEmptyKeyword = errors.New("retail: empty keyword")
)

// Options configures a Client.
type Options struct {
	BaseURL       string
	KeywordPrefix string
	NGKeyword     string
}

// Client queries the item search endpoint.
type Client struct {
	fetch     *fetch.Client
	appID     string
	baseURL   string
	prefix    string
	ngKeyword string
}

// NewClient returns a Client for the given application ID.
// Returns nil if the ID is empty.
func NewClient(f *fetch.Client, appID string, opts Options) *Client {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil
	}
	c := &Client{
		fetch:     f,
		appID:     appID,
		baseURL:   opts.BaseURL,
		prefix:    opts.KeywordPrefix,
		ngKeyword: opts.NGKeyword,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	return c
}

// Hit is one search result before parsing.
type Hit struct {
	Name  string          `json:"itemName"`
	Price decimal.Decimal `json:"itemPrice"`
	URL   string          `json:"itemUrl"`
	Shop  string          `json:"shopName"`
}

type searchResponse struct {
	Items []json.RawMessage `json:"Items"`
}

// Search returns the top hit for keyword, parsed. A nil Client reports
// ErrNoApplicationID.
func (c *Client) Search(ctx context.Context, keyword string) (model.RetailItem, error) {
	hits, err := c.Hits(ctx, keyword)
	if err != nil {
		return model.RetailItem{}, err
	}
	return Parse(hits[0].Name, hits[0].Price), nil
}

// Hits returns every hit on the first result page, in provider order.
// Results that fail to decode or have no name are skipped.
func (c *Client) Hits(ctx context.Context, keyword string) ([]Hit, error) {
	if c == nil {
		return nil, ErrNoApplicationID
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	if c.prefix != "" {
		keyword = c.prefix + " " + keyword
	}

	params := url.Values{
		"applicationId": {c.appID},
		"keyword":       {keyword},
		"format":        {"json"},
	}
	if c.ngKeyword != "" {
		params.Set("NGKeyword", c.ngKeyword)
	}

	var resp searchResponse
	if err := c.fetch.GetJSON(ctx, c.baseURL, params, &resp); err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(resp.Items))
	for i, raw := range resp.Items {
		hit, err := decodeHit(raw)
		if err != nil {
			slog.Debug("skipping retail result", "index", i, "error", err)
			continue
		}
		if hit.Name == "" {
			slog.Debug("skipping unnamed retail result", "index", i)
			continue
		}
		hits = append(hits, hit)
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoItems, keyword)
	}
	return hits, nil
}

// decodeHit accepts both the wrapped ({"Item": {...}}) and the flat result
// shapes.
func decodeHit(raw json.RawMessage) (Hit, error) {
	var wrapped struct {
		Item *Hit `json:"Item"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return Hit{}, fmt.Errorf("retail: decoding item: %w", err)
	}
	if wrapped.Item != nil {
		return *wrapped.Item, nil
	}
	var flat Hit
	if err := json.Unmarshal(raw, &flat); err != nil {
		return Hit{}, fmt.Errorf("retail: decoding item: %w", err)
	}
	return flat, nil
}
