package redisstore_test

import (
	"context"
	"testing"

	"fxconverter/internal/domain"
	redisstore "fxconverter/internal/infrastructure/redis"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSet(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := redisstore.New(client, "fx:")
	ctx := context.Background()

	_, err = store.Get(ctx, "currency_cache")
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "currency_cache", `{"timestamp":1}`))
	got, err := store.Get(ctx, "currency_cache")
	require.NoError(t, err)
	require.Equal(t, `{"timestamp":1}`, got)

	raw, err := mr.Get("fx:currency_cache")
	require.NoError(t, err)
	require.Equal(t, `{"timestamp":1}`, raw)

	require.NoError(t, store.Set(ctx, "currency_cache", `{"timestamp":2}`))
	got, err = store.Get(ctx, "currency_cache")
	require.NoError(t, err)
	require.Equal(t, `{"timestamp":2}`, got)
}

func TestStore_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	store := redisstore.New(client, "")
	mr.Close()

	_, err = store.Get(context.Background(), "k")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrCacheMiss)
}
