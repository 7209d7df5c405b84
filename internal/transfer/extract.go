package transfer

import (
	"context"

	"github.com/gyeh/locsync/internal/model"
	"github.com/gyeh/locsync/internal/source"
)

// Extractor reads a source collection into memory.
type Extractor struct {
	store source.Store
}

// NewExtractor creates an Extractor over store.
func NewExtractor(store source.Store) *Extractor {
	return &Extractor{store: store}
}

// Extract returns every document currently in collection. Each call re-reads
// the whole collection.
func (x *Extractor) Extract(ctx context.Context, collection string) ([]model.SourceDocument, error) {
	docs, err := x.store.FetchAll(ctx, collection)
	if err != nil {
		return nil, &PipelineError{Phase: "extract", Kind: ErrSourceRead, Err: err}
	}
	return docs, nil
}
