// Package client implements the request pipeline: cache lookup,
// throttle, authenticated HTTP call, outcome classification, and
// envelope construction. Every network or HTTP outcome is returned as
// envelope data; Fetch only errors on caller misconfiguration.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sportslens/sportslens/internal/core"
	"github.com/sportslens/sportslens/internal/core/cache"
)

// DefaultBaseURL is the API-Sports American Football service root.
const DefaultBaseURL = "https://v1.american-football.api-sports.io"

// apiKeyHeader carries the credential on every outbound request.
const apiKeyHeader = "x-apisports-key"

// Limiter gates outbound calls. Implemented by engine.IntervalLimiter.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Client is the rate-limited, caching access layer for the remote
// sports-data service. Safe for concurrent use by multiple goroutines
// sharing one instance.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Cache      *cache.Cache
	Limiter    Limiter
	Logger     *zap.Logger
}

// New returns a Client for the given API key and collaborators. The
// base URL defaults to the API-Sports service root.
func New(apiKey string, store *cache.Cache, limiter Limiter, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		APIKey:     apiKey,
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Cache:      store,
		Limiter:    limiter,
		Logger:     logger,
	}
}

// Fetch performs one request against path with the given parameters.
// A valid cached payload is returned immediately with no throttle wait
// and no network call. On a miss the call is throttled, issued with
// the API key header, and classified; only a parseable 200 is written
// back to the cache.
func (c *Client) Fetch(ctx context.Context, path string, params core.Params) (*core.Envelope, error) {
	if c == nil {
		return nil, errors.New("client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("request path is required")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	requestID := uuid.New().String()
	key := core.CacheKey(path, params)

	if c.Cache != nil {
		if payload, ok := c.Cache.Get(key); ok {
			logger.Debug("cache hit",
				zap.String("request_id", requestID),
				zap.String("endpoint", path))
			return &core.Envelope{
				Data:       payload,
				FromCache:  true,
				StatusCode: http.StatusOK,
				Endpoint:   path,
				Params:     params,
			}, nil
		}
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return c.failure(path, params, 0, fmt.Sprintf("request failed: %v", err)), nil
		}
	}

	req, err := c.newRequest(ctx, path, params)
	if err != nil {
		return nil, err
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		logger.Debug("request failed",
			zap.String("request_id", requestID),
			zap.String("endpoint", path),
			zap.Error(err))
		return c.failure(path, params, 0, fmt.Sprintf("request failed: %v", err)), nil
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	envelope := c.classify(resp, path, params)
	if envelope.OK() && c.Cache != nil {
		c.Cache.Set(key, envelope.Data)
	}

	logger.Debug("request complete",
		zap.String("request_id", requestID),
		zap.String("endpoint", path),
		zap.Int("status_code", envelope.StatusCode),
		zap.Bool("cached", envelope.OK()))

	return envelope, nil
}

func (c *Client) newRequest(ctx context.Context, path string, params core.Params) (*http.Request, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	target := parsed.ResolveReference(&url.URL{Path: path, RawQuery: params.Encode()})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.APIKey)
	return req, nil
}

func (c *Client) classify(resp *http.Response, path string, params core.Params) *core.Envelope {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return c.failure(path, params, resp.StatusCode, "authentication failed: invalid API key")
	case resp.StatusCode == http.StatusForbidden:
		return c.failure(path, params, resp.StatusCode, "access forbidden: check API subscription plan")
	case resp.StatusCode == http.StatusTooManyRequests:
		return c.failure(path, params, resp.StatusCode, "rate limit exceeded: too many requests to the remote service")
	case resp.StatusCode >= http.StatusInternalServerError:
		return c.failure(path, params, resp.StatusCode, fmt.Sprintf("server error: HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	case resp.StatusCode != http.StatusOK:
		return c.failure(path, params, resp.StatusCode, fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.failure(path, params, 0, fmt.Sprintf("request failed: %v", err))
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.failure(path, params, resp.StatusCode, fmt.Sprintf("response parsing failed: %v", err))
	}

	return &core.Envelope{
		Data:       payload,
		StatusCode: resp.StatusCode,
		Endpoint:   path,
		Params:     params,
	}
}

func (c *Client) failure(path string, params core.Params, statusCode int, message string) *core.Envelope {
	return &core.Envelope{
		StatusCode: statusCode,
		Endpoint:   path,
		Params:     params,
		Error:      message,
	}
}
