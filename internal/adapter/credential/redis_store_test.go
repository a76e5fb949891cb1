package credential

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	t.Run("put and get", func(t *testing.T) {
		store, mr := newTestRedisStore(t)

		err := store.Put(ctx, "token-1", entity.NewCredentials(testEndpoint, "secret"), time.Minute)
		require.NoError(t, err)
		assert.True(t, mr.Exists(redisKeyPrefix+"token-1"))

		creds, err := store.Get(ctx, "token-1")
		require.NoError(t, err)
		assert.Equal(t, testEndpoint, creds.EndpointURL)
		assert.Equal(t, "secret", creds.Secrets["key"])
	})

	t.Run("missing token", func(t *testing.T) {
		store, _ := newTestRedisStore(t)

		_, err := store.Get(ctx, "missing")

		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		store, mr := newTestRedisStore(t)
		require.NoError(t, store.Put(ctx, "token-2", entity.NewCredentials(testEndpoint, "secret"), time.Minute))

		mr.FastForward(2 * time.Minute)

		_, err := store.Get(ctx, "token-2")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store, _ := newTestRedisStore(t)
		require.NoError(t, store.Put(ctx, "token-3", entity.NewCredentials(testEndpoint, "secret"), time.Minute))

		require.NoError(t, store.Delete(ctx, "token-3"))

		_, err := store.Get(ctx, "token-3")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("vault over redis resolves placeholders", func(t *testing.T) {
		store, _ := newTestRedisStore(t)
		vault := NewVault(store, time.Minute)

		inv, err := vault.Open(ctx, entity.NewCredentials(testEndpoint, "secret"))
		require.NoError(t, err)

		value, err := vault.Resolve(ctx, inv.Token(), inv.Placeholder("key"))
		require.NoError(t, err)
		assert.Equal(t, "secret", value)
	})
}
