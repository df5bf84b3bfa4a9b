package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fxconverter/internal/domain"

	"go.uber.org/zap"
)

const (
	DefaultCacheKey = "currency_cache"
	FreshnessWindow = time.Hour
)

// cacheEntry is the persisted single-slot value.
type cacheEntry struct {
	Timestamp int64               `json:"timestamp"`
	Data      domain.RatesPayload `json:"data"`
}

// RateCache keeps the most recent rates document in a KVStore under one key.
type RateCache struct {
	store  KVStore
	key    string
	window time.Duration
	clock  Clock
	log    *zap.Logger
}

type CacheOption func(*RateCache)

func WithCacheKey(key string) CacheOption { return func(c *RateCache) { c.key = key } }
func WithFreshness(d time.Duration) CacheOption {
	return func(c *RateCache) { c.window = d }
}
func WithCacheClock(clk Clock) CacheOption      { return func(c *RateCache) { c.clock = clk } }
func WithCacheLogger(l *zap.Logger) CacheOption { return func(c *RateCache) { c.log = l } }

func NewRateCache(store KVStore, opts ...CacheOption) *RateCache {
	c := &RateCache{store: store}
	for _, opt := range opts {
		opt(c)
	}
	if c.key == "" {
		c.key = DefaultCacheKey
	}
	if c.window <= 0 {
		c.window = FreshnessWindow
	}
	if c.clock == nil {
		c.clock = realClock{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// Load returns the cached table if it is younger than the freshness window.
func (c *RateCache) Load(ctx context.Context) (domain.RateTable, error) {
	e, err := c.read(ctx)
	if err != nil {
		return domain.RateTable{}, err
	}
	age := c.clock.Now().Sub(time.UnixMilli(e.Timestamp))
	if age >= c.window {
		c.log.Debug("rates.cache_expired", zap.Duration("age", age))
		return domain.RateTable{}, fmt.Errorf("%w: entry expired", domain.ErrCacheMiss)
	}
	return e.Data.Table(), nil
}

// LoadStale returns the cached table regardless of its age.
func (c *RateCache) LoadStale(ctx context.Context) (domain.RateTable, error) {
	e, err := c.read(ctx)
	if err != nil {
		return domain.RateTable{}, err
	}
	return e.Data.Table(), nil
}

// Store overwrites the cached entry.
func (c *RateCache) Store(ctx context.Context, p domain.RatesPayload, at time.Time) error {
	b, err := json.Marshal(cacheEntry{Timestamp: at.UnixMilli(), Data: p})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.store.Set(ctx, c.key, string(b)); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (c *RateCache) read(ctx context.Context) (cacheEntry, error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			c.log.Warn("rates.cache_read_failed", zap.Error(err))
		}
		return cacheEntry{}, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	var e cacheEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		c.log.Warn("rates.cache_corrupt", zap.Error(err))
		return cacheEntry{}, fmt.Errorf("%w: decode entry: %v", domain.ErrCacheMiss, err)
	}
	if len(e.Data.ConversionRates) == 0 {
		return cacheEntry{}, fmt.Errorf("%w: empty entry", domain.ErrCacheMiss)
	}
	return e, nil
}
