package pg

import (
	"context"
	"errors"

	"fxconverter/internal/application"
	"fxconverter/internal/domain"

	"github.com/jackc/pgx/v5"
)

var _ application.KVStore = (*KVStore)(nil)

type KVStore struct{ db *DB }

func NewKVStore(db *DB) *KVStore { return &KVStore{db: db} }

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM kv_store WHERE key=$1`
	var v string
	err := s.db.Pool.QueryRow(ctx, q, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	const up = `
        INSERT INTO kv_store(key, value, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (key) DO UPDATE
          SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`
	_, err := s.db.Pool.Exec(ctx, up, key, value)
	return err
}
