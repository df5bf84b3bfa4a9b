package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fxconverter/internal/application"
	"fxconverter/internal/config"
	"fxconverter/internal/infrastructure/eventloop"
	"fxconverter/internal/infrastructure/filestore"
	"fxconverter/internal/infrastructure/logx"
	redisstore "fxconverter/internal/infrastructure/redis"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("PROVIDER", "fake")
	t.Setenv("CACHE_BACKEND", "memory")
	return config.Load()
}

func TestProvideKVStore_Backends(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()
	cfg := testConfig(t)

	cfg.CacheBackend = "file"
	cfg.CacheFile = filepath.Join(t.TempDir(), "cache.json")
	s, cleanup, err := ProvideKVStore(ctx, log, cfg)
	require.NoError(t, err)
	cleanup()
	require.IsType(t, &filestore.Store{}, s)

	cfg.CacheBackend = "memory"
	s, _, err = ProvideKVStore(ctx, log, cfg)
	require.NoError(t, err)
	require.IsType(t, &application.MemoryStore{}, s)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	cfg.CacheBackend = "redis"
	cfg.RedisAddr = mr.Addr()
	s, cleanup, err = ProvideKVStore(ctx, log, cfg)
	require.NoError(t, err)
	require.IsType(t, &redisstore.Store{}, s)
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.True(t, mr.Exists("fxconverter:k"))
	cleanup()

	cfg.CacheBackend = "pg"
	cfg.DatabaseURL = ""
	_, _, err = ProvideKVStore(ctx, log, cfg)
	require.ErrorIs(t, err, ErrMissingDBURL)

	cfg.CacheBackend = "etcd"
	_, _, err = ProvideKVStore(ctx, log, cfg)
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestProvideFetcher(t *testing.T) {
	cfg := testConfig(t)
	f, err := ProvideFetcher(zap.NewNop(), cfg)
	require.NoError(t, err)
	p, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "success", p.Result)

	cfg.Provider = "exchangerateapi"
	_, err = ProvideFetcher(zap.NewNop(), cfg)
	require.NoError(t, err)

	cfg.Provider = "nope"
	_, err = ProvideFetcher(zap.NewNop(), cfg)
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestCleanups_AggregatesErrors(t *testing.T) {
	var order []int
	c := cleanups{
		func() error { order = append(order, 1); return errors.New("first") },
		func() error { order = append(order, 2); return nil },
		func() error { order = append(order, 3); return errors.New("third") },
	}
	err := c.run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "first")
	require.Contains(t, err.Error(), "third")
	require.Equal(t, []int{3, 2, 1}, order)

	require.NoError(t, cleanups{}.run())
}

func TestInitApp_FakeProvider(t *testing.T) {
	testConfig(t)
	t.Setenv("DISPLAY_TIMEZONE", "UTC")

	app, cleanup, err := InitApp(context.Background())
	require.NoError(t, err)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	st := app.Start(ctx)
	require.Equal(t, application.StateReady, st.State)

	r, err := app.Loop.Submit(ctx, eventloop.Event{Kind: eventloop.KindAmount, Row: 2, Value: "100"})
	require.NoError(t, err)
	require.NotEmpty(t, r.Rows)
}

func TestInitApp_UnknownBackend(t *testing.T) {
	testConfig(t)
	t.Setenv("CACHE_BACKEND", "etcd")
	_, _, err := InitApp(context.Background())
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestProvideLogger_LevelFromDotEnv(t *testing.T) {
	t.Cleanup(func() { _ = logx.SetLevel("info") })
	require.NoError(t, logx.SetLevel("info"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o644))
	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	for k, v := range vars {
		t.Setenv(k, v)
	}

	l := ProvideLogger(config.Load())
	require.True(t, l.Core().Enabled(zap.DebugLevel))
	require.True(t, logx.L().Core().Enabled(zap.DebugLevel))

	cfg := config.Load()
	cfg.LogLevel = "nonsense"
	l = ProvideLogger(cfg)
	require.True(t, l.Core().Enabled(zap.DebugLevel), "an invalid level keeps the previous one")
}
