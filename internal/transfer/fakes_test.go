package transfer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gyeh/locsync/internal/config"
	"github.com/gyeh/locsync/internal/db"
	"github.com/gyeh/locsync/internal/model"
)

// --- In-memory fakes for pipeline testing ---

// fakeStore is an in-memory source.Store.
type fakeStore struct {
	mu          sync.Mutex
	collections map[string][]model.SourceDocument
	fetchErr    map[string]error
	// failBatch makes the Nth DeleteBatch call (1-based) fail.
	failBatch int
	batches   []int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		collections: make(map[string][]model.SourceDocument),
		fetchErr:    make(map[string]error),
	}
}

func (s *fakeStore) seed(collection string, n int, mutate func(i int, raw *model.RawLocation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := len(s.collections[collection])
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s-%d", collection, base+i)
		raw := model.RawLocation{
			UserID:        "u-1",
			Latitude:      18.5204,
			Longitude:     73.8567,
			Address:       "Pune",
			Type:          "checkin",
			DateTime:      "2024-05-01T09:30:00Z",
			Code:          "P1",
			InstallmentNo: "2",
		}
		if mutate != nil {
			mutate(i, &raw)
		}
		s.collections[collection] = append(s.collections[collection], model.SourceDocument{
			Ref: model.DocRef{Collection: collection, ID: id, Key: id},
			Raw: raw,
		})
	}
}

func (s *fakeStore) count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func (s *fakeStore) FetchAll(_ context.Context, collection string) ([]model.SourceDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fetchErr[collection]; err != nil {
		return nil, err
	}
	return append([]model.SourceDocument(nil), s.collections[collection]...), nil
}

func (s *fakeStore) DeleteBatch(_ context.Context, collection string, refs []model.DocRef) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, len(refs))
	if s.failBatch > 0 && len(s.batches) == s.failBatch {
		return 0, errors.New("quota exceeded")
	}

	drop := make(map[any]bool, len(refs))
	for _, r := range refs {
		drop[r.Key] = true
	}
	var kept []model.SourceDocument
	var deleted int64
	for _, d := range s.collections[collection] {
		if drop[d.Ref.Key] {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	s.collections[collection] = kept
	return deleted, nil
}

// fakeWriter is an in-memory transactional Writer keyed by destination host.
type fakeWriter struct {
	mu         sync.Mutex
	rows       map[string][]model.Record
	unreach    map[string]bool
	failRecord map[string]int // 0-based record index that fails to insert
	calls      int
	block      chan struct{}
	entered    chan struct{}
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		rows:       make(map[string][]model.Record),
		unreach:    make(map[string]bool),
		failRecord: make(map[string]int),
	}
}

func (w *fakeWriter) WriteAll(ctx context.Context, dest config.Destination, records []model.Record) (int64, error) {
	if w.entered != nil {
		w.entered <- struct{}{}
	}
	if w.block != nil {
		<-w.block
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.unreach[dest.Host] {
		return 0, &db.ConnectError{Err: errors.New("dial tcp: connection refused")}
	}

	var tx []model.Record
	for i, r := range records {
		if idx, ok := w.failRecord[dest.Host]; ok && idx == i {
			return 0, fmt.Errorf("insert record %d: constraint violation", i)
		}
		tx = append(tx, r)
	}
	w.rows[dest.Host] = append(w.rows[dest.Host], tx...)
	return int64(len(tx)), nil
}

func (w *fakeWriter) rowCount(host string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.rows[host])
}

func unit(name string) config.Unit {
	return config.Unit{
		Name:       name,
		Collection: name + "_locations",
		Destination: config.Destination{
			Host:     name + ".db",
			Port:     5432,
			Database: name,
		},
	}
}
