package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"nidgate/internal/birthplace"
	"nidgate/pkg/platform/sentinel"
)

// RedisSource reads the dataset document stored as a string value at Key.
type RedisSource struct {
	client redis.Cmdable
	key    string
}

func NewRedisSource(client redis.Cmdable, key string) *RedisSource {
	return &RedisSource{client: client, key: key}
}

func (s *RedisSource) Name() string { return "redis" }

func (s *RedisSource) Load(ctx context.Context) ([]birthplace.Entry, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("redis key %q: %w", s.key, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("redis get %q: %w: %w", s.key, sentinel.ErrUnavailable, err)
	}
	entries, err := birthplace.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("redis key %q: %w", s.key, err)
	}
	return entries, nil
}

// Store writes a dataset document to key. Operators use it to seed Redis
// from a file.
func Store(ctx context.Context, client redis.Cmdable, key string, dataset *birthplace.Dataset) error {
	doc, err := dataset.MarshalJSON()
	if err != nil {
		return err
	}
	if err := client.Set(ctx, key, doc, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return nil
}
