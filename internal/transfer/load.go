package transfer

import (
	"context"
	"errors"

	"github.com/gyeh/locsync/internal/config"
	"github.com/gyeh/locsync/internal/db"
	"github.com/gyeh/locsync/internal/model"
	"github.com/gyeh/locsync/internal/normalize"
)

// Writer stores records at a destination inside a single transaction.
// Implementations return *db.ConnectError when the destination is unreachable.
type Writer interface {
	WriteAll(ctx context.Context, dest config.Destination, records []model.Record) (int64, error)
}

// Loader coerces extracted documents and commits them to a destination.
type Loader struct {
	writer Writer
}

// NewLoader creates a Loader backed by writer.
func NewLoader(writer Writer) *Loader {
	return &Loader{writer: writer}
}

// Load coerces every document before touching the destination, then writes
// them all in one transaction. It returns the committed count; on any error
// nothing is committed.
func (l *Loader) Load(ctx context.Context, dest config.Destination, docs []model.SourceDocument) (int64, error) {
	records, err := normalize.ToRecords(docs)
	if err != nil {
		return 0, &PipelineError{Phase: "coerce", Kind: ErrDestinationWrite, Err: err}
	}

	n, err := l.writer.WriteAll(ctx, dest, records)
	if err != nil {
		var ce *db.ConnectError
		if errors.As(err, &ce) {
			return 0, &PipelineError{Phase: "load", Kind: ErrDestinationConnect, Err: err}
		}
		return 0, &PipelineError{Phase: "load", Kind: ErrDestinationWrite, Err: err}
	}
	return n, nil
}
