package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/locsync/internal/config"
	embedsql "github.com/gyeh/locsync/internal/sql"
)

// NewPool creates a pgxpool with session-level params suitable for bulk loads.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	// Disable statement timeout for bulk loading sessions.
	cfg.ConnConfig.RuntimeParams["statement_timeout"] = "0"
	// A load holds one transaction; a second conn covers the database check.
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Connect opens a pool for a unit's destination and confirms which database
// the session landed in. A mismatch is logged, not fatal.
func Connect(ctx context.Context, dest config.Destination, log zerolog.Logger) (*pgxpool.Pool, error) {
	pool, err := NewPool(ctx, dest.DSN())
	if err != nil {
		return nil, err
	}

	var actual string
	if err := pool.QueryRow(ctx, embedsql.CurrentDatabase).Scan(&actual); err != nil {
		pool.Close()
		return nil, fmt.Errorf("query current database: %w", err)
	}
	if actual != dest.Database {
		log.Warn().
			Str("configured", dest.Database).
			Str("actual", actual).
			Msg("destination database mismatch")
	} else {
		log.Debug().Str("destination", dest.String()).Msg("destination pool established")
	}
	return pool, nil
}
