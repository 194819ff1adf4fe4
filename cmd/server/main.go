// Command server runs the massage practice client portal API.
//
// @title                       Massage Therapy Client Portal API
// @version                     1.0.0
// @description                 Registration, sessions and client profile management for a massage therapy practice.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/massage-portal/client-portal/internal/api"
	"github.com/massage-portal/client-portal/internal/core/ports"
	"github.com/massage-portal/client-portal/internal/core/service"
	"github.com/massage-portal/client-portal/internal/infrastructure/config"
	redisdb "github.com/massage-portal/client-portal/internal/infrastructure/db/redis"
	"github.com/massage-portal/client-portal/internal/infrastructure/queue"
	"github.com/massage-portal/client-portal/internal/infrastructure/ratelimit"
	"github.com/massage-portal/client-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "client-portal",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	// --- Rate limiting ---
	limiter, err := newLimiter(ctx, cfg, log, st)
	if err != nil {
		return err
	}

	// --- Activity pipeline ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, service.NewActivityService(st.activity, log), log)
	dispatcher.Start(workerCtx)

	// --- Services ---
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	authSvc := service.NewAuthService(st.users, st.clients, tokens, dispatcher, cfg.Auth.BcryptCost, log)
	clientSvc := service.NewClientService(st.clients, st.users, log)
	userSvc := service.NewUserService(st.users, authSvc, st.activity, dispatcher, log)

	proxies, err := cfg.TrustedProxyNets()
	if err != nil {
		cancelWorkers()
		return err
	}

	e := api.NewRouter(api.Deps{
		Log:            log,
		Auth:           authSvc,
		Clients:        clientSvc,
		Users:          userSvc,
		Limiter:        limiter,
		Checks:         st.checks,
		TrustedProxies: proxies,
		FrontendURL:    cfg.FrontendURL,
		SwaggerEnabled: cfg.SwaggerEnabled,
		ExposeErrors:   cfg.IsDevelopment(),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		cancelWorkers()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced shutdown")
	}

	// Requests are drained; let the workers flush what is queued.
	cancelWorkers()
	select {
	case <-dispatcher.Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("activity workers did not stop in time")
	}
	return nil
}

// newLimiter returns the Redis limiter when REDIS_ADDR is set and the
// in-process limiter otherwise.
func newLimiter(ctx context.Context, cfg *config.Config, log zerolog.Logger, st *store) (ports.RateLimiter, error) {
	if cfg.Redis.Addr == "" {
		mem := ratelimit.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
		go mem.Run(ctx)
		log.Info().Msg("using in-process rate limiter")
		return mem, nil
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:           cfg.Redis.Addr,
		Password:       cfg.Redis.Password,
		DB:             cfg.Redis.DB,
		PoolSize:       cfg.Redis.PoolSize,
		CommandTimeout: cfg.Redis.CommandTimeout,
	})
	if err != nil {
		return nil, err
	}
	st.closers = append(st.closers, rdb.Close)
	st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	return redisdb.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window), nil
}
