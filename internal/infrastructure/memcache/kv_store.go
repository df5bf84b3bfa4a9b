package memcachestore

import (
	"context"
	"errors"

	"fxconverter/internal/application"
	"fxconverter/internal/domain"

	"github.com/bradfitz/gomemcache/memcache"
)

var _ application.KVStore = (*Store)(nil)

// Store is a KVStore over memcached. Items are written without expiration.
type Store struct {
	Client *memcache.Client
}

func New(hosts ...string) *Store {
	return &Store{Client: memcache.New(hosts...)}
}

// gomemcache has no context support; ctx is only checked before the call.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	it, err := s.Client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return "", domain.ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return string(it.Value), nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Client.Set(&memcache.Item{Key: key, Value: []byte(value)})
}

func (s *Store) Ping(context.Context) error { return s.Client.Ping() }
