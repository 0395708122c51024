package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nidgate/internal/birthplace"
	"nidgate/pkg/platform/sentinel"
)

// fakeRedis implements the two commands the source uses.
type fakeRedis struct {
	redis.Cmdable
	values map[string]string
	err    error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	switch v, ok := f.values[key]; {
	case f.err != nil:
		cmd.SetErr(f.err)
	case !ok:
		cmd.SetErr(redis.Nil)
	default:
		cmd.SetVal(v)
	}
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = string(value.([]byte))
	cmd.SetVal("OK")
	return cmd
}

func TestRedisSource(t *testing.T) {
	ctx := context.Background()

	t.Run("reads document", func(t *testing.T) {
		client := &fakeRedis{values: map[string]string{"birthplace:dataset": `{"001": "Tehran"}`}}
		entries, err := NewRedisSource(client, "birthplace:dataset").Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []birthplace.Entry{{Prefix: "001", City: "Tehran"}}, entries)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewRedisSource(&fakeRedis{}, "birthplace:dataset").Load(ctx)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("connection failure", func(t *testing.T) {
		_, err := NewRedisSource(&fakeRedis{err: errors.New("dial tcp: refused")}, "k").Load(ctx)
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("malformed value", func(t *testing.T) {
		client := &fakeRedis{values: map[string]string{"k": `"just a string"`}}
		_, err := NewRedisSource(client, "k").Load(ctx)
		assert.ErrorIs(t, err, sentinel.ErrMalformed)
	})
}

func TestStoreThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := &fakeRedis{}
	original := birthplace.NewDataset([]birthplace.Entry{
		{Prefix: "001", Province: "Tehran", City: "Central"},
		{Prefix: "127", City: "Isfahan"},
	})

	require.NoError(t, Store(ctx, client, "k", original))
	entries, err := NewRedisSource(client, "k").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, original.Entries(), entries)
}
