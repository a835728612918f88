package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	return NewClient(Options{
		Cache:     NewMemoryCache(),
		BaseDelay: time.Millisecond,
	})
}

func TestGet_CachesIdenticalRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	params := url.Values{"b": {"2"}, "a": {"1"}}

	first, err := c.Get(context.Background(), srv.URL, params)
	require.NoError(t, err)
	second, err := c.Get(context.Background(), srv.URL, url.Values{"a": {"1"}, "b": {"2"}})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGet_DistinctParamsMiss(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.Get(context.Background(), srv.URL, url.Values{"q": {"a"}})
	require.NoError(t, err)
	_, err = c.Get(context.Background(), srv.URL, url.Values{"q": {"b"}})
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
}

func TestGet_RetriesThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`done`))
	}))
	defer srv.Close()

	body, err := newTestClient(t).Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", string(body))
	assert.Equal(t, int32(3), hits.Load())
}

func TestGet_ExhaustsRetries(t *testing.T) {
	for _, status := range []int{500, 502, 503, 504} {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.WriteHeader(status)
		}))

		c := newTestClient(t)
		_, err := c.Get(context.Background(), srv.URL, nil)
		srv.Close()

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTransient, "status %d", status)
		assert.Equal(t, int32(DefaultMaxAttempts), hits.Load(), "status %d", status)
	}
}

func TestGet_NonRetryableStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.Get(context.Background(), srv.URL, url.Values{"applicationId": {"secret"}})

	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)
	assert.False(t, errors.Is(err, ErrTransient))
	assert.NotContains(t, err.Error(), "secret")
	assert.Equal(t, int32(1), hits.Load())

	// Failures are never cached.
	_, _ = c.Get(context.Background(), srv.URL, url.Values{"applicationId": {"secret"}})
	assert.Equal(t, int32(2), hits.Load())
}

func TestGet_TransportErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	target := srv.URL
	srv.Close()

	_, err := newTestClient(t).Get(context.Background(), target, nil)
	assert.ErrorIs(t, err, ErrTransient)
}

func TestGet_NoCacheBypasses(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(Options{Cache: NewMemoryCache(), NoCache: true, BaseDelay: time.Millisecond})
	for range 2 {
		_, err := c.Get(context.Background(), srv.URL, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"lager","n":3}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}
	require.NoError(t, newTestClient(t).GetJSON(context.Background(), srv.URL, nil, &out))
	assert.Equal(t, "lager", out.Name)
	assert.Equal(t, 3, out.N)
}
