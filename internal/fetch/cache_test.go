package fetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	c.Set("k", []byte("v"), DefaultTTL)

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", string(got))

	now = now.Add(DefaultTTL - time.Second)
	_, ok = c.Get("k")
	assert.True(t, ok, "entry should still be live just before ttl")

	now = now.Add(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry should expire at ttl")
	assert.Empty(t, c.entries, "expired entry should be dropped on lookup")
}

func TestCacheKey_OrderIndependent(t *testing.T) {
	a := CacheKey("https://example.com/x", map[string][]string{"b": {"2"}, "a": {"1"}})
	b := CacheKey("https://example.com/x", map[string][]string{"a": {"1"}, "b": {"2"}})
	assert.Equal(t, a, b)
	assert.Equal(t, "GET https://example.com/x?a=1&b=2", a)
	assert.Equal(t, "GET https://example.com/x", CacheKey("https://example.com/x", nil))
}
