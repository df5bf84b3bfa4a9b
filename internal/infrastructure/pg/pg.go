package pg

import (
	"context"
	"fmt"
	"time"

	infraconfig "fxconverter/internal/infrastructure/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	readyAttempts = 30
	readyInterval = 500 * time.Millisecond
)

// DB is the pool behind the kv_store cache backend.
type DB struct{ Pool *pgxpool.Pool }

// Connect opens a small pool and waits until the server answers.
func Connect(ctx context.Context, url string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	cfg.MaxConns = infraconfig.DefaultPGMaxConns
	cfg.MinConns = infraconfig.DefaultPGMinConns
	cfg.MaxConnIdleTime = 2 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: open pool: %w", err)
	}
	db := &DB{Pool: pool}
	if err := waitReady(ctx, db.Ping, readyAttempts, readyInterval); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close()                         { d.Pool.Close() }
func (d *DB) Ping(ctx context.Context) error { return d.Pool.Ping(ctx) }

// waitReady calls ping until it succeeds, attempts run out or ctx ends.
func waitReady(ctx context.Context, ping func(context.Context) error, attempts int, every time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = ping(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("pg: wait ready: %w", ctx.Err())
		case <-time.After(every):
		}
	}
	return fmt.Errorf("pg: wait ready: %w", err)
}
