package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sportslens/sportslens/internal/core"
	"github.com/sportslens/sportslens/internal/core/cache"
)

// countingLimiter records how often the pipeline throttled.
type countingLimiter struct {
	waits int
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.waits++
	return l.err
}

func newTestClient(t *testing.T, upstream *httptest.Server) (*Client, *countingLimiter) {
	t.Helper()

	store := cache.New(filepath.Join(t.TempDir(), "cache.json"), time.Hour)
	limiter := &countingLimiter{}

	c := New("test-key", store, limiter, nil)
	if upstream != nil {
		c.BaseURL = upstream.URL
		c.HTTPClient = upstream.Client()
	}
	return c, limiter
}

func TestFetchMissThenHit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "test-key", r.Header.Get("x-apisports-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": 32}`))
	}))
	defer server.Close()

	c, limiter := newTestClient(t, server)

	first, err := c.Fetch(context.Background(), "/teams", core.Params{"league": 1})
	require.NoError(t, err)
	require.True(t, first.OK())
	require.False(t, first.FromCache)
	require.Equal(t, http.StatusOK, first.StatusCode)
	require.Equal(t, "/teams", first.Endpoint)

	second, err := c.Fetch(context.Background(), "/teams", core.Params{"league": 1})
	require.NoError(t, err)
	require.True(t, second.OK())
	require.True(t, second.FromCache)
	require.Equal(t, http.StatusOK, second.StatusCode)
	require.Equal(t, first.Data, second.Data)

	// The hit skipped both the throttle and the network.
	require.Equal(t, 1, calls)
	require.Equal(t, 1, limiter.waits)
}

func TestFetchKeyOrderIndependence(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	_, err := c.Fetch(context.Background(), "/games", core.Params{"league": 1, "season": 2023})
	require.NoError(t, err)

	second, err := c.Fetch(context.Background(), "/games", core.Params{"season": 2023, "league": 1})
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.Equal(t, 1, calls)
}

func TestFetchSendsQueryParamsOmittingNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "1", r.URL.Query().Get("league"))
		require.False(t, r.URL.Query().Has("search"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	envelope, err := c.Fetch(context.Background(), "/teams", core.Params{"league": 1, "search": nil})
	require.NoError(t, err)
	require.True(t, envelope.OK())
}

func TestFetchUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	envelope, err := c.Fetch(context.Background(), "/teams", nil)
	require.NoError(t, err)
	require.False(t, envelope.OK())
	require.False(t, envelope.FromCache)
	require.Equal(t, http.StatusUnauthorized, envelope.StatusCode)
	require.Contains(t, envelope.Error, "authentication failed")

	// Failures are never cached.
	require.False(t, c.Cache.IsCached(core.CacheKey("/teams", nil)))
}

func TestFetchForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	envelope, err := c.Fetch(context.Background(), "/teams", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, envelope.StatusCode)
	require.Contains(t, envelope.Error, "forbidden")
}

func TestFetchRemoteRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	envelope, err := c.Fetch(context.Background(), "/teams", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusTooManyRequests, envelope.StatusCode)
	require.Contains(t, envelope.Error, "rate limit exceeded")
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	envelope, err := c.Fetch(context.Background(), "/teams", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, envelope.StatusCode)
	require.Contains(t, envelope.Error, "server error")
}

func TestFetchOtherStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	envelope, err := c.Fetch(context.Background(), "/nope", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, envelope.StatusCode)
	require.Contains(t, envelope.Error, "HTTP 404")
}

func TestFetchUnparseableBodyNotCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	envelope, err := c.Fetch(context.Background(), "/teams", nil)
	require.NoError(t, err)
	require.False(t, envelope.OK())
	require.Equal(t, http.StatusOK, envelope.StatusCode)
	require.Contains(t, envelope.Error, "response parsing failed")

	// The failure was not pinned in the cache: the next identical call
	// goes back to the network.
	second, err := c.Fetch(context.Background(), "/teams", nil)
	require.NoError(t, err)
	require.False(t, second.FromCache)
	require.Equal(t, 2, calls)
}

func TestFetchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // unreachable on purpose

	c, _ := newTestClient(t, nil)
	c.BaseURL = server.URL

	envelope, err := c.Fetch(context.Background(), "/teams", nil)
	require.NoError(t, err)
	require.False(t, envelope.OK())
	require.Equal(t, 0, envelope.StatusCode)
	require.Contains(t, envelope.Error, "request failed")
}

func TestFetchDeadlineClassifiedAsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	envelope, err := c.Fetch(ctx, "/teams", nil)
	require.NoError(t, err)
	require.False(t, envelope.OK())
	require.Equal(t, 0, envelope.StatusCode)
	require.Contains(t, envelope.Error, "request failed")
}

func TestFetchWithoutCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, limiter := newTestClient(t, server)
	c.Cache = nil

	for i := 0; i < 2; i++ {
		envelope, err := c.Fetch(context.Background(), "/teams", nil)
		require.NoError(t, err)
		require.True(t, envelope.OK())
		require.False(t, envelope.FromCache)
	}
	require.Equal(t, 2, calls)
	require.Equal(t, 2, limiter.waits)
}

func TestFetchRequiresPath(t *testing.T) {
	c, _ := newTestClient(t, nil)

	_, err := c.Fetch(context.Background(), "  ", nil)
	require.Error(t, err)
}

func TestFetchNilClient(t *testing.T) {
	var c *Client
	_, err := c.Fetch(context.Background(), "/teams", nil)
	require.Error(t, err)
}

func TestFetchAddsLeadingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/teams", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, _ := newTestClient(t, server)

	envelope, err := c.Fetch(context.Background(), "teams", nil)
	require.NoError(t, err)
	require.Equal(t, "/teams", envelope.Endpoint)
}
