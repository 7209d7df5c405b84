// Package source reads location documents from the document store and
// deletes them once they are safely at the destination.
package source

import (
	"context"

	"github.com/gyeh/locsync/internal/model"
)

// Store is the document-store capability the pipeline depends on.
type Store interface {
	// FetchAll returns every document currently in the collection.
	FetchAll(ctx context.Context, collection string) ([]model.SourceDocument, error)
	// DeleteBatch deletes the referenced documents and reports how many were removed.
	DeleteBatch(ctx context.Context, collection string, refs []model.DocRef) (int64, error)
}
