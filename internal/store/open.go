package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/PratikDhanave/sms-wecom-relay/internal/config"
)

// Open builds the cache backend selected by cfg.CacheDriver.
// It returns a nil Cache when caching is disabled; the returned close func is never nil.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Cache, func(), error) {
	switch cfg.CacheDriver {
	case config.CacheNone:
		return nil, func() {}, nil

	case config.CacheMemory:
		m := NewMemoryStore()
		pruner := NewPruner(m, 0, logger)
		pruner.Start(ctx)
		return m, pruner.Stop, nil

	case config.CacheRedis:
		r, err := NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		return r, func() { _ = r.Close() }, nil

	case config.CachePostgres:
		p, err := NewPostgresStore(ctx, cfg.DBURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if err := p.EnsureSchema(ctx); err != nil {
			p.Close()
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		pruner := NewPruner(p, 0, logger)
		pruner.Start(ctx)
		return p, func() {
			pruner.Stop()
			p.Close()
		}, nil
	}

	return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.CacheDriver)
}
