package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/massage-portal/client-portal/internal/core/ports"
)

const keyPrefix = "ratelimit:"

// RateLimiter is a fixed-window counter shared by every API instance.
// Key format: ratelimit:<key>
type RateLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewRateLimiter allows max requests per key in each window.
func NewRateLimiter(client *redis.Client, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, max: max, window: window}
}

// Allow increments the counter for key and reports whether the request fits
// in the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	k := keyPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit incr: %w", err)
	}

	count := int(incr.Val())
	remaining := ttl.Val()
	// A fresh key (or one that lost its TTL) starts a new window.
	if remaining < 0 {
		if err := l.client.PExpire(ctx, k, l.window).Err(); err != nil {
			return ports.RateDecision{}, fmt.Errorf("rate limit expire: %w", err)
		}
		remaining = l.window
	}

	d := ports.RateDecision{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: max(l.max-count, 0),
	}
	if !d.Allowed {
		d.RetryAfter = remaining
	}
	return d, nil
}
