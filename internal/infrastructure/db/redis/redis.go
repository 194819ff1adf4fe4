// Package redis holds the shared Redis connection and the rate limiter
// built on it.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout = 5 * time.Second
	// Limiter calls sit on the request path; a slow server should fail the
	// check quickly so the middleware can let the request through.
	defaultCommandTimeout = 250 * time.Millisecond
	defaultPoolSize       = 20
)

// Config captures the settings for the rate limit store.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// DialTimeout bounds connection setup and the startup ping.
	DialTimeout time.Duration
	// CommandTimeout bounds each read and write on an open connection.
	CommandTimeout time.Duration
}

func (c Config) options() *redis.Options {
	dial := c.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}
	cmd := c.CommandTimeout
	if cmd <= 0 {
		cmd = defaultCommandTimeout
	}
	pool := c.PoolSize
	if pool <= 0 {
		pool = defaultPoolSize
	}
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     pool,
		MinIdleConns: pool / 4,
		DialTimeout:  dial,
		ReadTimeout:  cmd,
		WriteTimeout: cmd,
		PoolTimeout:  dial,
	}
}

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := cfg.options()
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
