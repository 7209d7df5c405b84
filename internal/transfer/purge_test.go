package transfer

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/locsync/internal/model"
)

func refsOf(s *fakeStore, collection string) []model.DocRef {
	docs, _ := s.FetchAll(context.Background(), collection)
	refs := make([]model.DocRef, len(docs))
	for i := range docs {
		refs[i] = docs[i].Ref
	}
	return refs
}

func TestPurge_BatchBoundaries(t *testing.T) {
	tests := []struct {
		refs    int
		batches []int
	}{
		{1, []int{1}},
		{499, []int{499}},
		{500, []int{500}},
		{501, []int{500, 1}},
		{1200, []int{500, 500, 200}},
	}
	for _, tc := range tests {
		store := newFakeStore()
		store.seed("c", tc.refs, nil)
		p := NewPurger(store, 500)

		n, err := p.Purge(context.Background(), zerolog.Nop(), "c", refsOf(store, "c"))
		require.NoError(t, err)
		assert.Equal(t, int64(tc.refs), n)
		assert.Equal(t, tc.batches, store.batches, "refs=%d", tc.refs)
		assert.Zero(t, store.count("c"))
	}
}

func TestPurge_FailedBatchKeepsEarlierDeletes(t *testing.T) {
	store := newFakeStore()
	store.seed("c", 1201, nil)
	store.failBatch = 2
	p := NewPurger(store, 500)

	n, err := p.Purge(context.Background(), zerolog.Nop(), "c", refsOf(store, "c"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourcePurge)
	assert.Contains(t, err.Error(), "batch 2 of 3")
	assert.Equal(t, int64(500), n)
	assert.Equal(t, []int{500, 500}, store.batches, "no batch after the failed one is attempted")
	assert.Equal(t, 701, store.count("c"))
}

func TestPurge_Empty(t *testing.T) {
	store := newFakeStore()
	n, err := NewPurger(store, 500).Purge(context.Background(), zerolog.Nop(), "c", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.batches)
}

func TestNewPurger_ClampsBatchSize(t *testing.T) {
	assert.Equal(t, 500, NewPurger(nil, 0).batchSize)
	assert.Equal(t, 500, NewPurger(nil, 10000).batchSize)
	assert.Equal(t, 50, NewPurger(nil, 50).batchSize)
}
