package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/locsync/internal/config"
	"github.com/gyeh/locsync/internal/model"
	"github.com/gyeh/locsync/internal/source"
)

// Purger deletes loaded documents from the source in bounded batches.
type Purger struct {
	store     source.Store
	batchSize int
}

// NewPurger creates a Purger. batchSize is clamped to 1..config.MaxPurgeBatchSize.
func NewPurger(store source.Store, batchSize int) *Purger {
	if batchSize <= 0 || batchSize > config.MaxPurgeBatchSize {
		batchSize = config.MaxPurgeBatchSize
	}
	return &Purger{store: store, batchSize: batchSize}
}

// Purge deletes refs batch by batch, strictly in order. It stops at the first
// failed batch: earlier batches stay deleted, the failed one and everything
// after it are left in place. The returned count covers completed batches.
func (p *Purger) Purge(ctx context.Context, log zerolog.Logger, collection string, refs []model.DocRef) (int64, error) {
	var deleted int64
	batches := (len(refs) + p.batchSize - 1) / p.batchSize

	for b := 0; b < batches; b++ {
		start := b * p.batchSize
		end := min(start+p.batchSize, len(refs))
		chunk := refs[start:end]

		batchStart := time.Now()
		n, err := p.store.DeleteBatch(ctx, collection, chunk)
		if err != nil {
			log.Error().Err(err).
				Int("batch", b+1).
				Int("batches", batches).
				Int("batch_size", len(chunk)).
				Int64("deleted_so_far", deleted).
				Msg("purge batch failed")
			return deleted, &PipelineError{
				Phase: "purge",
				Kind:  ErrSourcePurge,
				Err:   fmt.Errorf("batch %d of %d (%d documents): %w", b+1, batches, len(chunk), err),
			}
		}
		deleted += n

		log.Debug().
			Int("batch", b+1).
			Int("batches", batches).
			Int64("deleted", n).
			Dur("duration", time.Since(batchStart)).
			Msg("purge batch committed")
	}
	return deleted, nil
}
