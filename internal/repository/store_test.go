package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/lendbook/internal/config"
)

func TestKVStore_RoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, found, err := store.Get(ctx, "clients")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Set(ctx, "clients", `[{"id":"1"}]`))
			value, found, err := store.Get(ctx, "clients")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `[{"id":"1"}]`, value)

			require.NoError(t, store.Set(ctx, "clients", `[]`))
			value, _, err = store.Get(ctx, "clients")
			require.NoError(t, err)
			assert.Equal(t, `[]`, value)

			require.NoError(t, store.Delete(ctx, "clients"))
			require.NoError(t, store.Delete(ctx, "clients"))
			_, found, err = store.Get(ctx, "clients")
			require.NoError(t, err)
			assert.False(t, found)

			assert.NoError(t, store.Ping(ctx))
		})
	}
}

func TestRedisStore_UsesPrefix(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewRedisStore(client, "lendbook:")

	require.NoError(t, store.Set(context.Background(), "payments_42", "[]"))

	assert.True(t, mr.Exists("lendbook:payments_42"))
	assert.False(t, mr.Exists("payments_42"))
}

func TestRedisStore_Unavailable(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewRedisStore(client, "")
	mr.Close()

	_, _, err := store.Get(context.Background(), "clients")
	assert.Error(t, err)
	assert.Error(t, store.Ping(context.Background()))
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, client.Options().DB)
	_ = client.Close()

	_, err = NewRedisClient("not a url")
	assert.Error(t, err)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadlock", &pq.Error{Code: pgErrDeadlock}, true},
		{"serialization failure", &pq.Error{Code: pgErrSerializationFailure}, true},
		{"wrapped serialization failure", fmt.Errorf("set: %w", &pq.Error{Code: pgErrSerializationFailure}), true},
		{"bad connection", driver.ErrBadConn, true},
		{"unique violation", &pq.Error{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestRetrier_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("recovers from transient errors", func(t *testing.T) {
		r := NewRetrier(zerolog.Nop())
		calls := 0
		err := r.Retry(ctx, func() error {
			calls++
			if calls < 3 {
				return &pq.Error{Code: pgErrDeadlock}
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent errors", func(t *testing.T) {
		r := NewRetrier(zerolog.Nop())
		calls := 0
		err := r.Retry(ctx, func() error {
			calls++
			return errors.New("syntax error")
		})
		assert.EqualError(t, err, "syntax error")
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		r := NewRetrier(zerolog.Nop())
		calls := 0
		err := r.Retry(ctx, func() error {
			calls++
			return driver.ErrBadConn
		})
		assert.ErrorIs(t, err, driver.ErrBadConn)
		assert.Equal(t, r.maxRetries+1, calls)
	})
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, closeFn, err := OpenStore(config.StoreConfig{Driver: config.StoreMemory}, zerolog.Nop())
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
		assert.NoError(t, closeFn())
	})

	t.Run("redis", func(t *testing.T) {
		_, mr := newTestRedisClient(t)
		store, closeFn, err := OpenStore(config.StoreConfig{
			Driver:         config.StoreRedis,
			RedisURL:       "redis://" + mr.Addr(),
			RedisKeyPrefix: "lendbook:",
		}, zerolog.Nop())
		require.NoError(t, err)
		defer closeFn()

		require.NoError(t, store.Set(ctx, ClientsKey, "[]"))
		assert.True(t, mr.Exists("lendbook:clients"))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, _, err := OpenStore(config.StoreConfig{Driver: "sqlite"}, zerolog.Nop())
		assert.Error(t, err)
	})
}
