// Package ratelimit provides an in-process rate limiter for single-instance
// deployments where Redis is not configured.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/massage-portal/client-portal/internal/core/ports"
)

const cleanupInterval = time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter is a per-key token bucket refilling max tokens per window.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	window   time.Duration
	now      func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	if max <= 0 {
		max = 1
	}
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(max)),
		burst:    max,
		window:   window,
		now:      time.Now,
	}
}

// Allow takes one token from key's bucket.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (ports.RateDecision, error) {
	now := l.now()

	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	allowed := v.limiter.AllowN(now, 1)
	tokens := v.limiter.TokensAt(now)
	l.mu.Unlock()

	d := ports.RateDecision{
		Allowed:   allowed,
		Limit:     l.burst,
		Remaining: max(int(math.Floor(tokens)), 0),
	}
	if !allowed {
		// Time until one full token is available again.
		missing := 1 - tokens
		d.RetryAfter = time.Duration(missing / float64(l.limit) * float64(time.Second))
	}
	return d, nil
}

// Run evicts idle buckets until ctx is cancelled.
func (l *MemoryLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evict()
		}
	}
}

// evict drops buckets idle for longer than a window; they are full again by then.
func (l *MemoryLimiter) evict() {
	cutoff := l.now().Add(-l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
		}
	}
}
