package memcachestore_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"fxconverter/internal/domain"
	memcachestore "fxconverter/internal/infrastructure/memcache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSet(t *testing.T) {
	hosts := os.Getenv("MEMCACHE_HOSTS")
	if hosts == "" {
		t.Skip("MEMCACHE_HOSTS not set; skipping memcache test")
	}
	store := memcachestore.New(strings.Split(hosts, ",")...)
	if err := store.Ping(context.Background()); err != nil {
		t.Skip("memcache not reachable: ", err)
	}
	ctx := context.Background()
	key := "fx_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	_, err := store.Get(ctx, key)
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, store.Set(ctx, key, "v1"))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "v1", got)
}

func TestStore_CancelledContext(t *testing.T) {
	store := memcachestore.New("127.0.0.1:1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Set(ctx, "k", "v"), context.Canceled)
}
