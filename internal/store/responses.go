package store

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/theirongolddev/brewburn/internal/fetch"
)

var _ fetch.Cache = (*ResponseCache)(nil)

// ResponseCache is a fetch.Cache kept in the http_cache table, so cached
// responses survive between invocations.
type ResponseCache struct {
	db  *sql.DB
	now func() time.Time
}

// Responses returns the store's response cache.
func (s *Store) Responses() *ResponseCache {
	return &ResponseCache{db: s.db, now: time.Now}
}

// Get returns the unexpired body stored under key. Lookup errors are logged
// and treated as misses.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	var body []byte
	err := c.db.QueryRow(
		"SELECT body FROM http_cache WHERE key = ? AND expires_at > ?",
		key, c.now().UnixNano(),
	).Scan(&body)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("response cache lookup failed", "error", err)
		}
		return nil, false
	}
	return body, true
}

// Set stores body under key for ttl.
func (c *ResponseCache) Set(key string, body []byte, ttl time.Duration) {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO http_cache (key, body, expires_at) VALUES (?, ?, ?)",
		key, body, c.now().Add(ttl).UnixNano(),
	)
	if err != nil {
		slog.Warn("response cache store failed", "error", err)
	}
}

// PurgeExpired deletes expired responses and returns how many were removed.
func (c *ResponseCache) PurgeExpired() (int64, error) {
	res, err := c.db.Exec("DELETE FROM http_cache WHERE expires_at <= ?", c.now().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
