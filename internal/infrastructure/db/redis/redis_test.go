package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	_ = client.Close()

	mr.Close()
	if _, err := Connect(context.Background(), Config{Addr: mr.Addr(), DialTimeout: 200 * time.Millisecond}); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}

func TestConnect_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	if _, err := Connect(context.Background(), Config{Addr: mr.Addr()}); err == nil {
		t.Fatalf("expected auth failure without a password")
	}
	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "s3cret"})
	if err != nil {
		t.Fatalf("Connect with password returned error: %v", err)
	}
	_ = client.Close()
}

func TestConfig_Options(t *testing.T) {
	opts := Config{Addr: "redis:6379"}.options()
	if opts.ReadTimeout != defaultCommandTimeout || opts.WriteTimeout != defaultCommandTimeout {
		t.Fatalf("expected command timeouts to default, got read=%v write=%v", opts.ReadTimeout, opts.WriteTimeout)
	}
	if opts.DialTimeout != defaultDialTimeout || opts.PoolSize != defaultPoolSize {
		t.Fatalf("unexpected defaults: %+v", opts)
	}

	opts = Config{PoolSize: 8, CommandTimeout: time.Second}.options()
	if opts.PoolSize != 8 || opts.MinIdleConns != 2 || opts.ReadTimeout != time.Second {
		t.Fatalf("overrides not applied: %+v", opts)
	}
}
