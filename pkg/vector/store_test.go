package vector

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreEmpty(t *testing.T) {
	s := NewMemoryStore()
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Query([]float32{1, 0}, 3))
	assert.Empty(t, s.All())
}

func TestMemoryStoreQueryRanking(t *testing.T) {
	s := NewMemoryStore()
	s.UpsertAll([]Entry{
		{ID: "orders", Embedding: []float32{0, 1}},
		{ID: "customers", Embedding: []float32{1, 0}},
		{ID: "products", Embedding: []float32{1, 1}},
	})

	matches := s.Query([]float32{1, 0}, 2)
	require.Len(t, matches, 2)
	assert.Equal(t, "customers", matches[0].ID)
	assert.Equal(t, "products", matches[1].ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestMemoryStoreTieBreakByID(t *testing.T) {
	s := NewMemoryStore()
	// Identical embeddings: every entry scores the same.
	s.UpsertAll([]Entry{
		{ID: "zebra", Embedding: []float32{1, 0}},
		{ID: "alpha", Embedding: []float32{1, 0}},
		{ID: "mango", Embedding: []float32{1, 0}},
	})

	matches := s.Query([]float32{1, 0}, 3)
	require.Len(t, matches, 3)
	assert.Equal(t, "alpha", matches[0].ID)
	assert.Equal(t, "mango", matches[1].ID)
	assert.Equal(t, "zebra", matches[2].ID)
}

func TestMemoryStoreQueryDeterministic(t *testing.T) {
	s := NewMemoryStore()
	entries := make([]Entry, 20)
	for i := range entries {
		entries[i] = Entry{
			ID:        fmt.Sprintf("table_%02d", i),
			Embedding: []float32{float32(i % 3), float32(i % 5), 1},
		}
	}
	s.UpsertAll(entries)

	first := s.Query([]float32{1, 2, 3}, 10)
	for range 5 {
		again := s.Query([]float32{1, 2, 3}, 10)
		assert.Equal(t, first, again)
	}
}

func TestMemoryStoreKClamping(t *testing.T) {
	s := NewMemoryStore()
	s.UpsertAll([]Entry{{ID: "a", Embedding: []float32{1}}})

	assert.Len(t, s.Query([]float32{1}, 10), 1)
	assert.Nil(t, s.Query([]float32{1}, 0))
}

func TestMemoryStoreGenerationNeverMixes(t *testing.T) {
	s := NewMemoryStore()

	genA := []Entry{
		{ID: "a1", Text: "genA", Embedding: []float32{1, 0}},
		{ID: "a2", Text: "genA", Embedding: []float32{0, 1}},
	}
	genB := []Entry{
		{ID: "b1", Text: "genB", Embedding: []float32{1, 0}},
		{ID: "b2", Text: "genB", Embedding: []float32{0, 1}},
		{ID: "b3", Text: "genB", Embedding: []float32{1, 1}},
	}
	s.UpsertAll(genA)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			matches := s.Query([]float32{1, 1}, 5)
			require.NotEmpty(t, matches)
			gen := matches[0].Text
			for _, m := range matches {
				assert.Equal(t, gen, m.Text, "results mixed entries from two generations")
			}
		}
	}()

	for range 100 {
		s.UpsertAll(genB)
		s.UpsertAll(genA)
	}
	close(stop)
	wg.Wait()
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}
