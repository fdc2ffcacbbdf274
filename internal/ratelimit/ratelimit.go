// Package ratelimit implements per-key token buckets on top of
// golang.org/x/time/rate. The server uses one instance keyed by client
// IP to throttle login attempts; the catalog client holds a single
// x/time limiter directly for its outbound quota.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter hands out an independent token bucket per key.
// Buckets are created on first use and share one limit/burst setting.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a keyed limiter allowing rps requests per second with the
// given burst available immediately on a fresh key.
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether the key has a token available right now.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until the key has a token or ctx is done.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	krl.mu.RLock()
	limiter, exists := krl.limiters[key]
	krl.mu.RUnlock()

	if exists {
		return limiter
	}

	krl.mu.Lock()
	defer krl.mu.Unlock()

	// Another caller may have created it between the two locks.
	if limiter, exists = krl.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(krl.limit, krl.burst)
	krl.limiters[key] = limiter
	return limiter
}

// Stop releases all per-key buckets. rate.Limiter has no last-access
// tracking to expire entries on, and a single-user server only ever
// sees a handful of client IPs, so the map is held until Stop rather
// than swept in the background.
func (krl *KeyedRateLimiter) Stop() {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	clear(krl.limiters)
}
