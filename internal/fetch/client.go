// Package fetch is the HTTP layer shared by the weather and retail clients:
// responses are cached for a short TTL and transient failures are retried
// with exponential backoff.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultTTL         = 5 * time.Minute
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 200 * time.Millisecond
	DefaultTimeout     = 10 * time.Second

	maxBodySize = 4 << 20 // 4 MB
	userAgent   = "brewburn/1.0"
)

// ErrTransient is returned once every attempt of a request has failed with a
// transport error or a retryable status.
var ErrTransient = errors.New("fetch: data unavailable")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: %s: unexpected status %d", e.URL, e.StatusCode)
}

// Retryable reports whether the status is one the client retries.
func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Options tunes a Client. Zero fields take the package defaults.
type Options struct {
	HTTPClient  *http.Client
	Cache       Cache
	TTL         time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	Timeout     time.Duration
	// NoCache bypasses lookups and stores.
	NoCache bool
}

// Client performs cached, retried GET requests.
type Client struct {
	http        *http.Client
	cache       Cache
	ttl         time.Duration
	maxAttempts int
	baseDelay   time.Duration
	timeout     time.Duration
	noCache     bool
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		http:        opts.HTTPClient,
		cache:       opts.Cache,
		ttl:         opts.TTL,
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
		timeout:     opts.Timeout,
		noCache:     opts.NoCache,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.cache == nil {
		c.cache = SharedCache
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.baseDelay <= 0 {
		c.baseDelay = DefaultBaseDelay
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	return c
}

// CacheKey is the key a GET of rawURL with params is cached under.
// url.Values.Encode sorts by parameter name, so ordering never matters.
func CacheKey(rawURL string, params url.Values) string {
	key := http.MethodGet + " " + rawURL
	if enc := params.Encode(); enc != "" {
		key += "?" + enc
	}
	return key
}

// Get fetches rawURL with the given query parameters and returns the body.
// A cached body is returned without touching the network.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	key := CacheKey(rawURL, params)
	if !c.noCache {
		if body, ok := c.cache.Get(key); ok {
			slog.Debug("fetch cache hit", "url", rawURL)
			return body, nil
		}
	}

	target := rawURL
	if enc := params.Encode(); enc != "" {
		target += "?" + enc
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.baseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = 64 * c.baseDelay

	attempts := 0
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempts++
		return c.do(ctx, target)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.maxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("fetch failed, retrying", "url", rawURL, "attempt", attempts, "delay", next, "error", err)
		}),
	)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if isRetryable(err) {
			return nil, fmt.Errorf("%w: %s after %d attempts: %w", ErrTransient, rawURL, attempts, err)
		}
		return nil, err
	}

	if !c.noCache {
		c.cache.Set(key, body, c.ttl)
	}
	return body, nil
}

// GetJSON is Get followed by json.Unmarshal into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, v any) error {
	body, err := c.Get(ctx, rawURL, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("fetch: decoding %s: %w", rawURL, err)
	}
	return nil
}

// do performs a single attempt. Non-retryable failures come back wrapped in
// backoff.Permanent.
func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("fetch: creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = stripQuery(uerr.URL)
		}
		return nil, &transportError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		serr := &StatusError{URL: stripQuery(target), StatusCode: resp.StatusCode}
		if serr.Retryable() {
			return nil, serr
		}
		return nil, backoff.Permanent(serr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("reading response: %w", err)}
	}
	return body, nil
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return "fetch: request failed: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var terr *transportError
	if errors.As(err, &terr) {
		return true
	}
	var serr *StatusError
	return errors.As(err, &serr) && serr.Retryable()
}

// stripQuery keeps credentials such as applicationId out of error text.
func stripQuery(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	u.RawQuery = ""
	return u.String()
}
