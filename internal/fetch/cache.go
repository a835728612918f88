package fetch

import (
	"sync"
	"time"
)

// Cache stores successful response bodies by request key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, body []byte, ttl time.Duration)
}

type cacheEntry struct {
	body   []byte
	expiry time.Time
}

// MemoryCache is a mutex-guarded in-process Cache. Expired entries are
// dropped lazily on lookup.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// SharedCache is the process-wide default used by clients built without an
// explicit cache.
var SharedCache = NewMemoryCache()

// Get returns the body cached under key if it has not expired.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiry) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.body, true
}

// Set stores body under key for ttl.
func (c *MemoryCache) Set(key string, body []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{body: body, expiry: c.now().Add(ttl)}
}
