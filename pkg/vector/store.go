// Package vector provides an in-process nearest-neighbor store for
// embedding vectors. Generations are immutable: a refresh replaces the
// whole entry set in one atomic swap, so concurrent readers always see
// a consistent generation.
package vector

import (
	"math"
	"sort"
	"sync/atomic"
)

// Entry pairs a document's text with its embedding vector and a stable
// identifier.
type Entry struct {
	ID        string
	Text      string
	Embedding []float32
}

// Match is an Entry returned from a similarity query with its score.
// Higher scores rank first.
type Match struct {
	Entry
	Score float64
}

// Store is the nearest-neighbor contract the schema index depends on.
type Store interface {
	// UpsertAll atomically replaces all entries with the given set.
	UpsertAll(entries []Entry)

	// Query returns the k entries most similar to the given vector,
	// ranked by descending similarity with ties broken by entry ID.
	Query(vec []float32, k int) []Match

	// All returns the current generation's entries in ID order.
	All() []Entry

	// Len returns the number of entries in the current generation.
	Len() int
}

// MemoryStore holds entries in memory behind an atomic pointer.
// Readers never block on a refresh; they either see the old or the
// new generation, never a mix.
type MemoryStore struct {
	generation atomic.Pointer[[]Entry]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	empty := make([]Entry, 0)
	s.generation.Store(&empty)
	return s
}

// UpsertAll replaces the whole generation with a copy of entries,
// sorted by ID so All and tie-breaking are deterministic.
func (s *MemoryStore) UpsertAll(entries []Entry) {
	next := make([]Entry, len(entries))
	copy(next, entries)
	sort.Slice(next, func(i, j int) bool { return next[i].ID < next[j].ID })
	s.generation.Store(&next)
}

// Query scores every entry in the current generation by cosine
// similarity against vec and returns the top k.
func (s *MemoryStore) Query(vec []float32, k int) []Match {
	entries := *s.generation.Load()
	if len(entries) == 0 || k <= 0 {
		return nil
	}

	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		matches = append(matches, Match{Entry: e, Score: cosineSimilarity(vec, e.Embedding)})
	}

	// Entries are already ID-sorted, so a stable sort by score keeps
	// the ID order among equal scores.
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}

// All returns a copy of the current generation.
func (s *MemoryStore) All() []Entry {
	entries := *s.generation.Load()
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Len returns the current generation's size.
func (s *MemoryStore) Len() int {
	return len(*s.generation.Load())
}

// cosineSimilarity computes the cosine of the angle between a and b.
// Mismatched lengths or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Ensure MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)
