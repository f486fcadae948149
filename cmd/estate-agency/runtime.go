package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/cache"
	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/observability"
	"github.com/spec-kit/estate-agency/internal/persistence"
	"github.com/spec-kit/estate-agency/internal/repository"
	"github.com/spec-kit/estate-agency/internal/repository/memory"
)

// runtimeEnv holds the process wide dependencies shared by all commands.
type runtimeEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	pg     *persistence.Postgres
	redis  *persistence.Redis
	store  repository.Store
	cache  cache.Cache
}

// bootstrap loads config, builds the logger and opens the store. Migrations
// run when enabled in config or forced by the caller.
func bootstrap(ctx context.Context, forceMigrations bool) (*runtimeEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	rt := &runtimeEnv{cfg: cfg, logger: logger, pg: pg, cache: cache.Nop{}}
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations || forceMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		rt.store = repository.NewPostgresStore(pg.PoolHandle())
	} else {
		rt.store = memory.NewStore()
	}
	return rt, nil
}

// withCache connects Redis and swaps the no-op cache for the Redis one.
func (rt *runtimeEnv) withCache(ctx context.Context) {
	rt.redis = persistence.NewRedis(ctx, rt.cfg.Redis, rt.logger)
	if !rt.redis.Enabled() {
		rt.logger.Info("redis disabled; response cache off")
		return
	}
	rt.cache = cache.NewRedisCache(rt.redis.Client, rt.cfg.Cache.Prefix, cache.TTLsFromConfig(rt.cfg.Cache))
}

func (rt *runtimeEnv) close() {
	rt.redis.Close()
	rt.pg.Close()
	_ = rt.logger.Sync()
}
