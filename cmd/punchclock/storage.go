package main

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/warp/punchclock/config"
	"github.com/warp/punchclock/kv"
	"github.com/warp/punchclock/log"
	"github.com/warp/punchclock/records"
	"github.com/warp/punchclock/store/redis"
	"github.com/warp/punchclock/store/sqlite"
)

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "backend",
			Usage: "storage backend: memory, sqlite or redis",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "SQLite database path, \":memory:\" for an in-memory database",
		},
		&cli.StringFlag{
			Name:  "redis-addr",
			Usage: "Redis address host:port",
		},
	}
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(ctx context.Context, cmd *cli.Command) (*config.Config, error) {
	c, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.IsSet("backend") {
		c.Storage.Backend = cmd.String("backend")
	}
	if cmd.IsSet("db") {
		c.Storage.DBPath = cmd.String("db")
	}
	if cmd.IsSet("redis-addr") {
		c.Redis.Addr = cmd.String("redis-addr")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// backend is an opened kv.Storage together with its teardown.
type backend struct {
	storage kv.Storage
	close   func() error

	// reset wipes the backend; nil falls back to records.Store.Reset.
	reset func(ctx context.Context) error
}

func openBackend(ctx context.Context, c *config.Config, logger *slog.Logger) (*backend, error) {
	switch c.Storage.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory storage, data is lost on exit")
		return &backend{storage: kv.NewMemory(), close: func() error { return nil }}, nil

	case config.BackendSQLite:
		s, err := sqlite.New(c.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		logger.Info("opened sqlite storage", "path", c.Storage.DBPath)
		return &backend{storage: s, close: s.Close, reset: s.Reset}, nil

	case config.BackendRedis:
		opts, err := goredis.ParseURL(c.Redis.ToURL())
		if err != nil {
			return nil, fmt.Errorf("invalid redis config: %w", err)
		}
		s, err := redis.New(ctx, opts, redis.WithPrefix(c.Redis.Prefix))
		if err != nil {
			return nil, err
		}
		logger.Info("connected to redis", "addr", c.Redis.Addr, "db", c.Redis.DB)
		return &backend{storage: s, close: s.Close}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
}

// openRecords opens the configured backend and wraps it in a records.Store.
func openRecords(ctx context.Context, c *config.Config) (*records.Store, *backend, error) {
	logger := log.FromContext(ctx)

	b, err := openBackend(ctx, c, logger)
	if err != nil {
		return nil, nil, err
	}

	store := records.New(b.storage,
		records.WithDatabaseKey(c.Storage.DatabaseKey),
		records.WithActiveKey(c.Storage.ActiveKey),
		records.WithLogger(log.SubLogger(logger, "records")),
	)
	if b.reset == nil {
		b.reset = store.Reset
	}
	return store, b, nil
}
