// Package app defines the App container that composes the process-scoped
// dependencies of the CLI.
//
// It owns the lifecycle of:
//   - configuration
//   - logger
//   - database pool
//   - optional redis client and the catalog cache on top of it
//   - repositories and services
//
// Nothing here is a global: callers build one App with New and release it
// with Shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/animedb/internal/cache"
	"github.com/deppfellow/animedb/internal/config"
	"github.com/deppfellow/animedb/internal/database"
	"github.com/deppfellow/animedb/internal/repository"
	"github.com/deppfellow/animedb/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisPingTimeout bounds the startup redis ping.
const RedisPingTimeout = 5 * time.Second

type App struct {
	Config *config.Config
	Logger *zerolog.Logger

	DB *database.Database

	// Redis and Cache are nil when redis is not configured or unreachable.
	Redis *redis.Client
	Cache *cache.Cache

	Repos    *repository.Repositories
	Services *service.Services
}

// New constructs an App and initializes its dependencies.
//
// The database is required: failure to connect aborts startup. Redis only
// backs the catalog cache, so a failed ping is logged and the App runs
// without it.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	db, err := database.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
	}

	if cfg.Redis.Enabled() {
		a.Redis, a.Cache = connectRedis(ctx, cfg.Redis, logger)
	}

	a.Repos = repository.NewRepositories(db.Pool)

	deps := service.Deps{
		DB:          db.Pool,
		Cache:       a.Cache,
		Logger:      logger,
		Environment: cfg.Primary.Env,
		Pinger:      db,
	}
	// A nil *cache.Cache must not end up in the interface.
	if a.Cache != nil {
		deps.CachePinger = a.Cache
	}
	a.Services = service.NewServices(deps, a.Repos)

	return a, nil
}

func connectRedis(ctx context.Context, cfg *config.RedisConfig, logger *zerolog.Logger) (*redis.Client, *cache.Cache) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Str("address", cfg.Address).Msg("failed to connect to redis, continuing without cache")
		_ = client.Close()
		return nil, nil
	}

	logger.Info().Str("address", cfg.Address).Dur("ttl", cfg.CacheTTL).Msg("connected to redis")
	return client, cache.New(client, cfg.CacheTTL, logger)
}

// Store is a shortcut for the ProfileStore.
func (a *App) Store() *service.ProfileStore {
	return a.Services.Store
}

// Shutdown closes the redis client and the database pool.
func (a *App) Shutdown() error {
	var errList []error

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	return errors.Join(errList...)
}
