package bunstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	bunDB := bun.NewDB(db, sqlitedialect.New())
	require.NoError(t, Install(context.Background(), bunDB))

	return bunDB
}

func setupStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	store, err := New(setupDB(t), opts...)
	require.NoError(t, err)

	return store
}

func TestNewRequiresDatabase(t *testing.T) {
	store, err := New(nil)
	assert.Nil(t, store)
	assert.Error(t, err)
}

func TestLoadAbsentOnFreshTable(t *testing.T) {
	store := setupStore(t)

	token, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jwt-token-abc"))

	token, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jwt-token-abc", token)
}

func TestSaveReplacesPrevious(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "first-token"))
	require.NoError(t, store.Save(ctx, "second-token"))

	token, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second-token", token)

	// The upsert must not accumulate rows for the profile.
	count, err := store.db.NewSelect().Model((*TokenModel)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestProfileKeepsStableID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "first-token"))

	var first TokenModel
	require.NoError(t, store.db.NewSelect().Model(&first).Where("profile = ?", store.profile).Scan(ctx))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Save(ctx, "second-token"))

	var second TokenModel
	require.NoError(t, store.db.NewSelect().Model(&second).Where("profile = ?", store.profile).Scan(ctx))

	// The id is derived from the profile name, so clears do not rotate it.
	assert.Equal(t, first.ID, second.ID)
}

func TestSaveEmptyReadsAbsent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jwt-token-abc"))
	require.NoError(t, store.Save(ctx, ""))

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jwt-token-abc"))
	require.NoError(t, store.Clear(ctx))

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Clear(ctx))
}

func TestProfilesAreIsolated(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	work, err := New(db, WithProfile("work"))
	require.NoError(t, err)
	personal, err := New(db, WithProfile("personal"))
	require.NoError(t, err)

	require.NoError(t, work.Save(ctx, "work-token"))
	require.NoError(t, personal.Save(ctx, "personal-token"))

	token, ok, err := work.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "work-token", token)

	require.NoError(t, work.Clear(ctx))

	token, ok, err = personal.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "personal-token", token)
}

func TestSaveRecordsUpdateTime(t *testing.T) {
	saved := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	store := setupStore(t, WithClock(func() time.Time { return saved }))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jwt-token-abc"))

	var model TokenModel
	require.NoError(t, store.db.NewSelect().
		Model(&model).
		Where("profile = ?", DefaultProfile).
		Scan(ctx))

	assert.WithinDuration(t, saved, model.UpdatedAt, time.Second)
}
