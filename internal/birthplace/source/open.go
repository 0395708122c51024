package source

import (
	"context"
	"errors"
	"fmt"

	"nidgate/internal/birthplace"
	"nidgate/internal/platform/config"
	"nidgate/internal/platform/postgres"
	platformredis "nidgate/internal/platform/redis"
	"nidgate/pkg/platform/sentinel"
)

// Open returns the source selected by cfg and a func that releases its
// connections. A source that cannot connect is still returned; its Load
// reports the connection error so the caller degrades like any other load
// failure.
func Open(ctx context.Context, cfg *config.Config) (Source, func()) {
	switch cfg.Dataset.Source {
	case config.SourceRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return unavailable{name: config.SourceRedis, err: err}, func() {}
		}
		if client == nil {
			return unavailable{name: config.SourceRedis, err: errors.New("redis.url is not configured")}, func() {}
		}
		return NewRedisSource(client, cfg.Dataset.RedisKey), func() { _ = client.Close() }
	case config.SourcePostgres:
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return unavailable{name: config.SourcePostgres, err: err}, func() {}
		}
		if db == nil {
			return unavailable{name: config.SourcePostgres, err: errors.New("postgres.url is not configured")}, func() {}
		}
		return NewPostgresSource(db.DB), func() { _ = db.Close() }
	default:
		return NewFileSource(cfg.Dataset.Path), func() {}
	}
}

type unavailable struct {
	name string
	err  error
}

func (u unavailable) Name() string { return u.name }

func (u unavailable) Load(context.Context) ([]birthplace.Entry, error) {
	return nil, fmt.Errorf("%w: %w", sentinel.ErrUnavailable, u.err)
}
