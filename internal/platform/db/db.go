package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrinsight/internal/platform/config"
)

// Connect opens the pool and retries the first ping with exponential backoff
// until cfg.DBConnectTimeout elapses.
func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.DBConnectTimeout
	b.MaxInterval = 5 * time.Second
	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			slog.Warn("database not ready", "attempt", attempt, "err", err)
			return err
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
