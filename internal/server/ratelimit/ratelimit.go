// Package ratelimit implements a per-client token bucket for the
// authentication endpoints.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter tracks one token bucket per client key. A nil Limiter allows
// everything.
type Limiter struct {
	mu      sync.Mutex
	perMin  int
	buckets map[string]*rate.Limiter
}

// New creates a limiter allowing perMin requests per minute per key.
// perMin of 0 disables limiting (New returns nil).
func New(perMin int) *Limiter {
	if perMin <= 0 {
		return nil
	}
	return &Limiter{perMin: perMin, buckets: make(map[string]*rate.Limiter)}
}

// Allow reports whether the key may proceed.
func (l *Limiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		// Refill continuously at the per-minute rate; the burst lets a
		// fresh client use its full minute allowance at once.
		b = rate.NewLimiter(rate.Limit(l.perMin)/60, l.perMin)
		l.buckets[key] = b
	}
	l.mu.Unlock()
	return b.Allow()
}
