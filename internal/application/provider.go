package application

import (
	"context"
	"errors"

	"fxconverter/internal/domain"

	"go.uber.org/zap"
)

// Lookup outcomes reported to ProviderMetrics.
const (
	OutcomeCacheHit    = "cache_hit"
	OutcomeFetched     = "fetched"
	OutcomeStale       = "stale"
	OutcomeUnavailable = "unavailable"
)

type ProviderMetrics interface {
	Lookup(outcome string)
	FetchFailure(reason string)
}

type noopMetrics struct{}

func (noopMetrics) Lookup(string)       {}
func (noopMetrics) FetchFailure(string) {}

// RateProvider is a read-through cache over a RateFetcher that serves a stale
// table when the fetch fails.
type RateProvider struct {
	cache   *RateCache
	fetcher RateFetcher
	clock   Clock
	log     *zap.Logger
	metrics ProviderMetrics
}

type ProviderOption func(*RateProvider)

func WithClock(c Clock) ProviderOption             { return func(p *RateProvider) { p.clock = c } }
func WithLogger(l *zap.Logger) ProviderOption      { return func(p *RateProvider) { p.log = l } }
func WithMetrics(m ProviderMetrics) ProviderOption { return func(p *RateProvider) { p.metrics = m } }

func NewRateProvider(cache *RateCache, fetcher RateFetcher, opts ...ProviderOption) *RateProvider {
	p := &RateProvider{cache: cache, fetcher: fetcher}
	for _, opt := range opts {
		opt(p)
	}
	if p.clock == nil {
		p.clock = realClock{}
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.metrics == nil {
		p.metrics = noopMetrics{}
	}
	return p
}

// GetRates returns the current rate table. ok is false only when neither the
// cache nor the fetcher could supply one.
func (p *RateProvider) GetRates(ctx context.Context) (domain.RateTable, bool) {
	if t, err := p.cache.Load(ctx); err == nil {
		p.log.Info("rates.cache_hit", zap.Int("currencies", t.Len()))
		p.metrics.Lookup(OutcomeCacheHit)
		return t, true
	}

	payload, err := p.fetcher.Fetch(ctx)
	if err == nil {
		t := payload.Table()
		if t.IsZero() {
			err = &domain.APIError{Reason: "invalid-rates"}
		} else {
			if serr := p.cache.Store(ctx, payload, p.clock.Now()); serr != nil {
				p.log.Warn("rates.cache_store_failed", zap.Error(serr))
			}
			p.log.Info("rates.fetched", zap.Int("currencies", t.Len()), zap.Time("updated_at", t.UpdatedAt()))
			p.metrics.Lookup(OutcomeFetched)
			return t, true
		}
	}

	p.metrics.FetchFailure(failureReason(err))
	p.log.Warn("rates.fetch_failed", zap.Error(err))

	if t, serr := p.cache.LoadStale(ctx); serr == nil {
		p.log.Info("rates.serving_stale", zap.Int("currencies", t.Len()))
		p.metrics.Lookup(OutcomeStale)
		return t, true
	}
	p.log.Error("rates.unavailable")
	p.metrics.Lookup(OutcomeUnavailable)
	return domain.RateTable{}, false
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAPIFailure):
		return "api"
	case errors.Is(err, domain.ErrNetworkFailure):
		return "network"
	default:
		return "other"
	}
}
