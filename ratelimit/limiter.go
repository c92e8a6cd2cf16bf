// Package ratelimit implements a fixed-window request counter on Redis.
// The window starts at the first increment and ends when the counter's TTL
// expires; it does not slide. Two full bursts can land back-to-back across a
// window boundary, which is an accepted property of the algorithm, traded
// for a single INCR per check.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/abdelmounim-dev/authcache/metrics"
	"github.com/abdelmounim-dev/authcache/store"
)

// Result reports the outcome of one rate-limit check.
type Result struct {
	Limited   bool
	Count     int64
	Remaining int64
}

// Limiter counts requests per identifier. It is stateless; all counters live
// in the store.
type Limiter struct {
	store *store.KeyValueStore
}

func NewLimiter(kv *store.KeyValueStore) *Limiter {
	return &Limiter{store: kv}
}

func counterKey(identifier string) string {
	return fmt.Sprintf("rate_limit:%s", identifier)
}

// Check increments the counter for identifier and reports whether the caller
// is over maxRequests for the current window. The TTL is set exactly once,
// on the increment that creates the counter; later increments in the same
// window leave it untouched. A store failure reads as not limited.
func (l *Limiter) Check(ctx context.Context, identifier string, maxRequests int64, window time.Duration) Result {
	count, ok := l.store.Increment(ctx, counterKey(identifier), 1)
	if !ok {
		// Fail open: a cache outage must not block legitimate traffic.
		metrics.RateLimitAllowed.Inc()
		return Result{Limited: false, Count: 0, Remaining: maxRequests}
	}

	if count == 1 {
		l.store.Expire(ctx, counterKey(identifier), window)
	}

	remaining := maxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	limited := count > maxRequests
	if limited {
		metrics.RateLimitBlocked.Inc()
	} else {
		metrics.RateLimitAllowed.Inc()
	}

	return Result{Limited: limited, Count: count, Remaining: remaining}
}
