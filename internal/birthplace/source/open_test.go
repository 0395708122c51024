package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nidgate/internal/birthplace"
	"nidgate/internal/platform/config"
	"nidgate/pkg/platform/sentinel"
)

func TestOpenFileSource(t *testing.T) {
	cfg := &config.Config{Dataset: config.DatasetConfig{Source: config.SourceFile, Path: "codes.json"}}
	src, closeFn := Open(context.Background(), cfg)
	defer closeFn()

	fs, ok := src.(*FileSource)
	require.True(t, ok)
	assert.Equal(t, "codes.json", fs.Path)
}

func TestOpenUnreachableRedisDegrades(t *testing.T) {
	cfg := &config.Config{
		Dataset: config.DatasetConfig{Source: config.SourceRedis, RedisKey: "k"},
		Redis:   config.RedisConfig{URL: "::not a url::"},
	}
	src, closeFn := Open(context.Background(), cfg)
	defer closeFn()

	assert.Equal(t, "redis", src.Name())
	_, err := src.Load(context.Background())
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestOpenWithoutURLDegrades(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "redis", source: config.SourceRedis},
		{name: "postgres", source: config.SourcePostgres},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Dataset: config.DatasetConfig{Source: tt.source}}

			src, closeFn := Open(context.Background(), cfg)
			assert.NotPanics(t, closeFn)

			assert.Equal(t, tt.source, src.Name())
			var entries []birthplace.Entry
			var err error
			assert.NotPanics(t, func() { entries, err = src.Load(context.Background()) })
			assert.Empty(t, entries)
			assert.ErrorIs(t, err, sentinel.ErrUnavailable)
			assert.ErrorContains(t, err, "url is not configured")
		})
	}
}
