package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/locsync/internal/model"
)

// RecordSource implements pgx.CopyFromSource over an in-memory batch of records.
type RecordSource struct {
	records []model.Record
	idx     int
}

// NewRecordSource creates a CopyFromSource backed by a slice.
func NewRecordSource(records []model.Record) *RecordSource {
	return &RecordSource{records: records, idx: -1}
}

// Next advances to the next record. Returns false past the last one.
func (s *RecordSource) Next() bool {
	s.idx++
	return s.idx < len(s.records)
}

// Values returns the current record's values in LocationColumns order.
func (s *RecordSource) Values() ([]any, error) {
	return s.records[s.idx].InsertValues(), nil
}

// Err always returns nil; a slice cannot fail mid-iteration.
func (s *RecordSource) Err() error {
	return nil
}

// Compile-time check that RecordSource satisfies the interface.
var _ pgx.CopyFromSource = (*RecordSource)(nil)
