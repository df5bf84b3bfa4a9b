package redisstore

import (
	"context"
	"errors"

	"fxconverter/internal/application"
	"fxconverter/internal/domain"

	"github.com/redis/go-redis/v9"
)

var _ application.KVStore = (*Store)(nil)

// Store keeps cache entries as plain redis strings without expiry; freshness is decided by the cache.
type Store struct {
	Client *redis.Client
	Prefix string
}

func New(client *redis.Client, prefix string) *Store {
	return &Store{Client: client, Prefix: prefix}
}

func (s *Store) key(k string) string { return s.Prefix + k }

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.Client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.Client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *Store) Ping(ctx context.Context) error { return s.Client.Ping(ctx).Err() }

func (s *Store) Close() error { return s.Client.Close() }
