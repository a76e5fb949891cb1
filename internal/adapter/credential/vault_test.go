package credential

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
)

const testEndpoint = "https://example.cognitiveservices.azure.com"

func TestVault_Open(t *testing.T) {
	store := NewMemoryStore()
	vault := NewVault(store, time.Minute)

	inv, err := vault.Open(context.Background(), entity.NewCredentials(testEndpoint, "secret"))

	require.NoError(t, err)
	assert.NotEmpty(t, inv.Token())
	assert.Equal(t, "{{key-"+inv.Token()+"}}", inv.Placeholder("key"))
	assert.NotContains(t, inv.Placeholder("key"), "secret")
	assert.Equal(t, 1, store.Len())
}

func TestVault_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("substitutes placeholder with secret", func(t *testing.T) {
		vault := NewVault(NewMemoryStore(), time.Minute)
		inv, err := vault.Open(ctx, entity.NewCredentials(testEndpoint, "secret"))
		require.NoError(t, err)

		value, err := vault.Resolve(ctx, inv.Token(), inv.Placeholder("key"))

		require.NoError(t, err)
		assert.Equal(t, "secret", value)
	})

	t.Run("leaves plain values untouched", func(t *testing.T) {
		vault := NewVault(NewMemoryStore(), time.Minute)

		value, err := vault.Resolve(ctx, "missing", "application/json")

		require.NoError(t, err)
		assert.Equal(t, "application/json", value)
	})

	t.Run("substitutes placeholder inside a larger value", func(t *testing.T) {
		vault := NewVault(NewMemoryStore(), time.Minute)
		inv, err := vault.Open(ctx, entity.NewCredentials(testEndpoint, "secret"))
		require.NoError(t, err)

		value, err := vault.Resolve(ctx, inv.Token(), "Bearer "+inv.Placeholder("key"))

		require.NoError(t, err)
		assert.Equal(t, "Bearer secret", value)
	})

	t.Run("rejects unknown secret", func(t *testing.T) {
		vault := NewVault(NewMemoryStore(), time.Minute)
		inv, err := vault.Open(ctx, entity.NewCredentials(testEndpoint, "secret"))
		require.NoError(t, err)

		_, err = vault.Resolve(ctx, inv.Token(), inv.Placeholder("password"))

		assert.ErrorIs(t, err, ErrUnknownSecret)
	})

	t.Run("rejects placeholder from another invocation", func(t *testing.T) {
		vault := NewVault(NewMemoryStore(), time.Minute)
		first, err := vault.Open(ctx, entity.NewCredentials(testEndpoint, "first-secret"))
		require.NoError(t, err)
		second, err := vault.Open(ctx, entity.NewCredentials(testEndpoint, "second-secret"))
		require.NoError(t, err)

		_, err = vault.Resolve(ctx, second.Token(), first.Placeholder("key"))

		assert.ErrorIs(t, err, ErrUnknownSecret)
	})

	t.Run("closed session cannot be resolved", func(t *testing.T) {
		vault := NewVault(NewMemoryStore(), time.Minute)
		inv, err := vault.Open(ctx, entity.NewCredentials(testEndpoint, "secret"))
		require.NoError(t, err)
		require.NoError(t, vault.Close(ctx, inv.Token()))

		_, err = vault.Resolve(ctx, inv.Token(), inv.Placeholder("key"))

		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestVault_Endpoint(t *testing.T) {
	ctx := context.Background()
	vault := NewVault(NewMemoryStore(), time.Minute)
	inv, err := vault.Open(ctx, entity.NewCredentials(testEndpoint, "secret"))
	require.NoError(t, err)

	endpoint, err := vault.Endpoint(ctx, inv.Token())

	require.NoError(t, err)
	assert.Equal(t, testEndpoint, endpoint)

	_, err = vault.Endpoint(ctx, "unknown-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, "token", entity.NewCredentials(testEndpoint, "secret"), time.Minute))

	creds, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "secret", creds.Secrets["key"])

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}
