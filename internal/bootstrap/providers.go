package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"fxconverter/internal/application"
	"fxconverter/internal/catalog"
	"fxconverter/internal/config"
	infraconfig "fxconverter/internal/infrastructure/config"
	"fxconverter/internal/infrastructure/eventloop"
	"fxconverter/internal/infrastructure/filestore"
	"fxconverter/internal/infrastructure/httpx"
	"fxconverter/internal/infrastructure/logx"
	memcachestore "fxconverter/internal/infrastructure/memcache"
	"fxconverter/internal/infrastructure/metrics"
	"fxconverter/internal/infrastructure/pg"
	"fxconverter/internal/infrastructure/provider"
	redisstore "fxconverter/internal/infrastructure/redis"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrMissingDBURL    = errors.New("DATABASE_URL is required for CACHE_BACKEND=pg")
	ErrUnknownBackend  = errors.New("unknown CACHE_BACKEND")
	ErrUnknownProvider = errors.New("unknown PROVIDER")
)

// cleanups runs every registered close in reverse order and reports all failures.
type cleanups []func() error

func (c cleanups) run() error {
	var result *multierror.Error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (c cleanups) closer(log *zap.Logger) func() {
	return func() {
		if err := c.run(); err != nil {
			log.Warn("cleanup", zap.Error(err))
		}
	}
}

// ProvideLogger applies LOG_LEVEL from cfg, which may come from a .env file
// loaded after the package logger was built.
func ProvideLogger(cfg config.Config) *zap.Logger {
	l := logx.L()
	if err := logx.SetLevel(cfg.LogLevel); err != nil {
		l.Warn("logger.invalid_level", zap.String("level", cfg.LogLevel), zap.Error(err))
	}
	return l
}

func ProvideConfig() config.Config { return config.Load() }

func ProvideMetrics() *metrics.Metrics { return metrics.New() }

// ProvideKVStore opens the cache backend named by CACHE_BACKEND.
func ProvideKVStore(ctx context.Context, log *zap.Logger, cfg config.Config) (application.KVStore, func(), error) {
	noop := func() {}
	switch cfg.CacheBackend {
	case "", "file":
		store := filestore.New(cfg.CacheFile)
		log.Info("cache.backend", zap.String("backend", "file"), zap.String("path", store.Path()))
		return store, noop, nil
	case "memory":
		return application.NewMemoryStore(), noop, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := redisstore.New(client, "fxconverter:")
		if err := store.Ping(ctx); err != nil {
			log.Warn("redis.ping_failed", zap.Error(err))
		}
		cl := cleanups{store.Close}
		return store, cl.closer(log), nil
	case "memcache":
		if len(cfg.MemcacheHosts) == 0 {
			return nil, noop, fmt.Errorf("%w: memcache needs MEMCACHE_HOSTS", ErrUnknownBackend)
		}
		return memcachestore.New(cfg.MemcacheHosts...), noop, nil
	case "pg":
		if cfg.DatabaseURL == "" {
			return nil, noop, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, noop, err
		}
		cl := cleanups{func() error {
			log.Info("closing pg")
			db.Close()
			return nil
		}}
		return pg.NewKVStore(db), cl.closer(log), nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.CacheBackend)
	}
}

func ProvideRateCache(store application.KVStore, log *zap.Logger, cfg config.Config) *application.RateCache {
	return application.NewRateCache(store,
		application.WithCacheKey(cfg.CacheKey),
		application.WithFreshness(cfg.CacheTTL),
		application.WithCacheLogger(log),
	)
}

func ProvideFetcher(log *zap.Logger, cfg config.Config) (application.RateFetcher, error) {
	switch cfg.Provider {
	case "exchangerateapi":
		if cfg.ExchangeAPIKey == "" {
			log.Warn("provider.missing_api_key")
		}
		return &provider.ExchangeRateAPIProvider{
			BaseURL: cfg.ExchangeAPIBase,
			APIKey:  cfg.ExchangeAPIKey,
			Base:    cfg.BaseCurrency,
			Client: &httpx.Client{
				HTTP:       &http.Client{Timeout: cfg.FetchTimeout},
				Retries:    cfg.FetchRetries,
				MaxElapsed: infraconfig.DefaultRetryMaxElapsed,
			},
		}, nil
	case "fake":
		return provider.NewDemo(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

func ProvideRateProvider(cache *application.RateCache, fetcher application.RateFetcher, m *metrics.Metrics, log *zap.Logger) *application.RateProvider {
	return application.NewRateProvider(cache, fetcher,
		application.WithLogger(log),
		application.WithMetrics(m),
	)
}

func ProvideCatalog(cfg config.Config) *catalog.Catalog { return catalog.New(cfg.FlagCDNBase) }

func ProvideSession(cfg config.Config, rp *application.RateProvider, cat *catalog.Catalog, log *zap.Logger) *application.Session {
	return application.NewSession(application.SessionConfig{
		BaseCurrency:      cfg.BaseCurrency,
		DefaultCurrencies: cfg.DefaultCurrencies,
		Location:          cfg.Location(),
	}, rp, cat, log)
}

func ProvideLoop(s *application.Session, m *metrics.Metrics, log *zap.Logger) *eventloop.Loop {
	return eventloop.New(s,
		eventloop.WithObserver(m),
		eventloop.WithLogger(log),
		eventloop.WithQueue(infraconfig.DefaultEventQueue),
	)
}
