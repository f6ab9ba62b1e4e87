// Package cache implements the TTL response cache backed by a single
// JSON file. Expiration is checked lazily on read; the whole store is
// persisted as one unit after every write.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is one cached payload with its write timestamp.
type Entry struct {
	Payload  any       `json:"payload"`
	StoredAt time.Time `json:"stored_at"`
}

// Cache is a key/value store with a global expiration window,
// persisted to a single file. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	path    string
	ttl     time.Duration
	entries map[string]Entry
	stats   Stats
	logger  *zap.Logger
	clock   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used to report persist failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New loads the cache backing file at path, or starts empty when the
// file is missing, unreadable, or does not hold the expected shape.
// Loading never fails.
func New(path string, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		path:    path,
		ttl:     ttl,
		entries: make(map[string]Entry),
		logger:  zap.NewNop(),
		clock:   func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(c)
	}

	c.load()
	return c
}

// Get returns the payload stored under key when the entry exists and
// has not outlived the expiration window. Every call counts as a hit
// or a miss; an expired entry counts as a miss and is evicted.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	if c.expired(entry) {
		delete(c.entries, key)
		c.persistLocked()
		c.stats.Misses++
		return nil, false
	}

	c.stats.Hits++
	return entry.Payload, true
}

// Set writes the entry under key with the current time and persists
// the full store. A persist failure is logged and never surfaced; the
// in-memory entry remains valid.
func (c *Cache) Set(key string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{Payload: payload, StoredAt: c.clock()}
	c.persistLocked()
}

// IsCached reports whether a valid entry exists for key. Unlike Get it
// does not touch the hit/miss counters.
func (c *Cache) IsCached(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	if c.expired(entry) {
		delete(c.entries, key)
		c.persistLocked()
		return false
	}
	return true
}

// Stats returns a snapshot of the hit/miss counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SetTTL changes the expiration window. It applies to all entries,
// including ones written before the change.
func (c *Cache) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
}

// Clear drops every entry and persists the emptied store.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	c.persistLocked()
}

func (c *Cache) expired(entry Entry) bool {
	return c.clock().Sub(entry.StoredAt) >= c.ttl
}

func (c *Cache) load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("cache file unreadable, starting empty",
				zap.String("file", c.path), zap.Error(err))
		}
		return
	}

	entries := make(map[string]Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("cache file malformed, starting empty",
			zap.String("file", c.path), zap.Error(err))
		return
	}
	c.entries = entries
}

// persistLocked writes the full store to a temp file and renames it
// over the backing file, so an interrupted write never leaves a
// half-written cache behind. Callers must hold c.mu.
func (c *Cache) persistLocked() {
	data, err := json.Marshal(c.entries)
	if err != nil {
		c.logger.Warn("cache persist failed", zap.String("file", c.path), zap.Error(err))
		return
	}

	if err := writeAtomic(c.path, data); err != nil {
		c.logger.Warn("cache persist failed", zap.String("file", c.path), zap.Error(err))
	}
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
