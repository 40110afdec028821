// Package ratelimit implements a fixed-window request counter keyed by
// client address. Counters live in process memory only: a restart
// clears them and separate processes throttle independently. This is
// advisory throttling, not a security boundary.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultWindow = 15 * time.Minute
	DefaultMax    = 100
)

// FallbackClientKey is the counter key used when no client address can
// be derived from a request. All such callers share a single counter,
// which is a deliberate degradation rather than a bug.
const FallbackClientKey = "127.0.0.1"

// Result is the outcome of a single Check call.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // whole seconds until the window resets, set on rejection
}

type record struct {
	count   int
	resetAt time.Time
}

// Limiter tracks per-key request counts within a fixed window. Safe for
// concurrent use.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	records map[string]*record

	// now is swapped out by tests to control the clock.
	now func() time.Time
}

func NewLimiter(window time.Duration, max int) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMax
	}
	return &Limiter{
		window:  window,
		max:     max,
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Max returns the per-window request ceiling.
func (l *Limiter) Max() int {
	return l.max
}

// Check records one request attempt for clientKey. Expired records for
// any key are purged on every call, which bounds the table size without
// a background sweeper. When the window limit is already reached the
// count is not incremented and RetryAfter carries the backoff hint.
func (l *Limiter) Check(clientKey string) Result {
	if clientKey == "" {
		clientKey = FallbackClientKey
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, rec := range l.records {
		if rec.resetAt.Before(now) {
			delete(l.records, key)
		}
	}

	rec, ok := l.records[clientKey]
	if !ok || rec.resetAt.Before(now) {
		rec = &record{resetAt: now.Add(l.window)}
		l.records[clientKey] = rec
	}

	if rec.count >= l.max {
		return Result{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    rec.resetAt,
			RetryAfter: ceilSeconds(rec.resetAt.Sub(now)),
		}
	}

	rec.count++
	return Result{
		Allowed:   true,
		Remaining: l.max - rec.count,
		ResetAt:   rec.resetAt,
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
