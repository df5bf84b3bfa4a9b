package application

import (
	"context"
	"time"

	"fxconverter/internal/domain"
)

// KVStore is the durable client-local store behind the rate cache.
// Get returns domain.ErrCacheMiss when the key is absent.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// RateFetcher retrieves the latest rates document from the remote API.
type RateFetcher interface {
	Fetch(ctx context.Context) (domain.RatesPayload, error)
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
