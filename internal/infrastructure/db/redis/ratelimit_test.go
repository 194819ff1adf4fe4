package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimiter(client, max, window), mr
}

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	l, mr := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow returned error: %v", err)
		}
		if !d.Allowed || d.Remaining != 3-i {
			t.Fatalf("request %d: unexpected decision %+v", i, d)
		}
	}

	d, err := l.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if d.Allowed || d.RetryAfter <= 0 || d.RetryAfter > time.Minute {
		t.Fatalf("expected rejection with retry-after, got %+v", d)
	}

	if ttl := mr.TTL(keyPrefix + "10.0.0.1"); ttl <= 0 {
		t.Fatalf("expected key to carry a TTL, got %v", ttl)
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if d, _ := l.Allow(ctx, "a"); !d.Allowed {
		t.Fatalf("first request for a should pass")
	}
	if d, _ := l.Allow(ctx, "b"); !d.Allowed {
		t.Fatalf("first request for b should pass")
	}
	if d, _ := l.Allow(ctx, "a"); d.Allowed {
		t.Fatalf("second request for a should be limited")
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "ip")
	if d, _ := l.Allow(ctx, "ip"); d.Allowed {
		t.Fatalf("expected limit within window")
	}

	mr.FastForward(2 * time.Minute)
	if d, _ := l.Allow(ctx, "ip"); !d.Allowed {
		t.Fatalf("expected new window after expiry")
	}
}
