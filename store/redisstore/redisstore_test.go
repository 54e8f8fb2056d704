package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...Option) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store, err := New(client, opts...)
	require.NoError(t, err)

	return mr, store
}

func TestNewRequiresClient(t *testing.T) {
	store, err := New(nil)
	assert.Nil(t, store)
	assert.Error(t, err)
}

func TestLoadAbsentKey(t *testing.T) {
	_, store := newTestStore(t)

	token, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jwt-token-abc"))

	token, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jwt-token-abc", token)

	stored, err := mr.Get(DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "jwt-token-abc", stored)
}

func TestSaveReplacesPrevious(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "first-token"))
	require.NoError(t, store.Save(ctx, "second-token"))

	token, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second-token", token)
}

func TestSaveEmptyReadsAbsent(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jwt-token-abc"))
	require.NoError(t, store.Save(ctx, ""))

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(DefaultKey))
}

func TestClear(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jwt-token-abc"))
	require.NoError(t, store.Clear(ctx))

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Clear(ctx))
}

func TestCustomKey(t *testing.T) {
	mr, store := newTestStore(t, WithKey("spendwise:staging:token"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jwt-token-abc"))

	assert.True(t, mr.Exists("spendwise:staging:token"))
	assert.False(t, mr.Exists(DefaultKey))
}

func TestTTLExpiresToken(t *testing.T) {
	mr, store := newTestStore(t, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jwt-token-abc"))

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)

	_, ok, err = store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
