package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/massage-portal/client-portal/internal/core/ports"
	"github.com/massage-portal/client-portal/internal/infrastructure/config"
	"github.com/massage-portal/client-portal/internal/infrastructure/db/memory"
	mongodb "github.com/massage-portal/client-portal/internal/infrastructure/db/mongo"
	mysqldb "github.com/massage-portal/client-portal/internal/infrastructure/db/mysql"
	"github.com/massage-portal/client-portal/internal/infrastructure/http/handlers"
)

// store is the set of repositories selected by STORE_DRIVER, plus the
// readiness checks and cleanup for the backing connections.
type store struct {
	users    ports.UserRepository
	clients  ports.ClientRepository
	activity ports.ActivityRepository
	checks   map[string]handlers.Check
	closers  []func() error
}

func (s *store) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreMySQL:
		db, err := mysqldb.Connect(ctx, mysqldb.Config{
			Host:            cfg.MySQL.Host,
			Port:            cfg.MySQL.Port,
			User:            cfg.MySQL.User,
			Password:        cfg.MySQL.Password,
			Database:        cfg.MySQL.Name,
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
		}, log)
		if err != nil {
			return nil, err
		}
		if err := mysqldb.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("host", cfg.MySQL.Host).Str("database", cfg.MySQL.Name).Msg("connected to mysql")
		return &store{
			users:    mysqldb.NewUserRepository(db),
			clients:  mysqldb.NewClientRepository(db),
			activity: mysqldb.NewActivityRepository(db),
			checks:   map[string]handlers.Check{"mysql": db.PingContext},
			closers:  []func() error{db.Close},
		}, nil

	case config.StoreMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &store{
			users:    mongodb.NewUserRepository(db),
			clients:  mongodb.NewClientRepository(db),
			activity: mongodb.NewActivityRepository(db),
			checks: map[string]handlers.Check{
				"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			},
			closers: []func() error{func() error { return client.Disconnect(context.Background()) }},
		}, nil

	case config.StoreMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		mem := memory.NewStore()
		return &store{
			users:    mem.Users,
			clients:  mem.Clients,
			activity: mem.Activity,
			checks:   map[string]handlers.Check{"memory": mem.Ping},
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
