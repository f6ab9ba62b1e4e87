// Package engine holds the outbound request throttle.
package engine

import (
	"context"
	"sync"
	"time"
)

// IntervalLimiter enforces a minimum wall-clock interval between
// consecutive outbound calls. Safe for concurrent use: the slot for
// each caller is reserved under the lock, so two callers can never
// both be granted within less than the interval of each other.
type IntervalLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	clock func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewIntervalLimiter returns a limiter with the given minimum interval.
// The first Wait after construction never blocks.
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		interval: interval,
		clock:    func() time.Time { return time.Now().UTC() },
		sleep:    sleepContext,
	}
}

// Wait blocks until at least the configured interval has elapsed since
// the previously granted call's start, records the new start, and
// returns. It returns early with ctx.Err() if the context is done
// before the slot opens.
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	l.mu.Lock()
	now := l.clock()
	start := now
	if !l.last.IsZero() {
		if earliest := l.last.Add(l.interval); earliest.After(now) {
			start = earliest
		}
	}
	l.last = start
	wait := start.Sub(now)
	l.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	return l.sleep(ctx, wait)
}

// SetInterval changes the minimum interval. It takes effect on the
// next Wait call.
func (l *IntervalLimiter) SetInterval(interval time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.interval = interval
}

// Interval returns the currently configured minimum interval.
func (l *IntervalLimiter) Interval() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interval
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
