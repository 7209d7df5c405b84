// Package snapshot writes extracted batches to Parquet files and reads them back.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/locsync/internal/model"
	"github.com/gyeh/locsync/internal/normalize"
)

// Path returns the snapshot file path for one unit's run.
func Path(dir, unit, runID string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.parquet", unit, runID))
}

// Write stores docs as a Parquet file at path. The file is written to a
// temporary name and renamed once complete.
func Write(path string, docs []model.SourceDocument, extractedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	rows := make([]model.SnapshotRow, len(docs))
	for i := range docs {
		rows[i] = normalize.ToSnapshotRow(&docs[i], extractedAt)
	}

	w := parquet.NewGenericWriter[model.SnapshotRow](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write snapshot rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("close snapshot writer: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close snapshot file: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads a snapshot file, validates its schema and rebuilds the documents.
func Load(path string) ([]model.SourceDocument, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err := ValidateSchema(r.Schema()); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", filepath.Base(path), err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	docs := make([]model.SourceDocument, len(rows))
	for i := range rows {
		docs[i] = normalize.FromSnapshotRow(&rows[i])
	}
	return docs, nil
}
