package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/gyeh/locsync/internal/config"
	"github.com/gyeh/locsync/internal/model"
	embedsql "github.com/gyeh/locsync/internal/sql"
)

// ConnectError marks failures to reach or authenticate against a destination.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect: %s", e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// LocationWriter inserts records into location.tbl_location.
type LocationWriter struct {
	log  zerolog.Logger
	mode string
}

// NewLocationWriter creates a writer using the given load mode
// (config.LoadModeInsert or config.LoadModeCopy).
func NewLocationWriter(log zerolog.Logger, mode string) *LocationWriter {
	if mode == "" {
		mode = config.LoadModeInsert
	}
	return &LocationWriter{log: log, mode: mode}
}

// WriteAll opens a pool for dest, writes every record inside one transaction
// and commits. On any error the transaction is rolled back and zero is returned.
// The pool is closed before returning.
func (w *LocationWriter) WriteAll(ctx context.Context, dest config.Destination, records []model.Record) (int64, error) {
	pool, err := Connect(ctx, dest, w.log)
	if err != nil {
		return 0, &ConnectError{Err: err}
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, &ConnectError{Err: fmt.Errorf("begin transaction: %w", err)}
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback(ctx) }()

	switch w.mode {
	case config.LoadModeCopy:
		n, err := tx.CopyFrom(ctx, pgx.Identifier(embedsql.LocationTable), model.LocationColumns(), NewRecordSource(records))
		if err != nil {
			return 0, fmt.Errorf("copy records: %w", err)
		}
		if n != int64(len(records)) {
			return 0, fmt.Errorf("copy records: wrote %d of %d", n, len(records))
		}
	default:
		for i := range records {
			if _, err := tx.Exec(ctx, embedsql.InsertLocation, records[i].InsertValues()...); err != nil {
				return 0, fmt.Errorf("insert record %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int64(len(records)), nil
}
