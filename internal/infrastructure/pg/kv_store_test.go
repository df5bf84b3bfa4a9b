package pg_test

import (
	"context"
	"testing"

	"fxconverter/internal/domain"
	"fxconverter/internal/infrastructure/pg"

	"github.com/stretchr/testify/require"
)

func TestKVStore_GetSetUpsert(t *testing.T) {
	db, teardown := withPostgres(t)
	defer teardown()

	store := pg.NewKVStore(db)
	ctx := context.Background()

	_, err := store.Get(ctx, "currency_cache")
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "currency_cache", "first"))
	require.NoError(t, store.Set(ctx, "currency_cache", "second"))

	got, err := store.Get(ctx, "currency_cache")
	require.NoError(t, err)
	require.Equal(t, "second", got)

	var n int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT count(*) FROM kv_store`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db, teardown := withPostgres(t)
	defer teardown()
	require.NoError(t, pg.RunMigrations(context.Background(), db))
}
