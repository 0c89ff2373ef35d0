package schema

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/sqlmend/sqlmend/pkg/apperrors"
	"github.com/sqlmend/sqlmend/pkg/vector"
)

// Embedder is the subset of the LLM client the index needs.
type Embedder interface {
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)
	CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error)
}

// Entry is one retrieval result: a unit's rendered text with its
// similarity score for the query.
type Entry struct {
	UnitID string
	Text   string
	Score  float64
}

// MaxTopK bounds how many units a single search may return, keeping
// prompt size bounded no matter what the caller asks for.
const MaxTopK = 10

// Index embeds rendered schema units and serves similarity search over
// them. The underlying store swaps whole generations atomically, so a
// search concurrent with a refresh sees either the old or the new set.
type Index struct {
	embedder Embedder
	store    vector.Store
	logger   *zap.Logger

	// refreshed distinguishes "no refresh has completed" from a
	// completed refresh of a database with no tables.
	refreshed atomic.Bool
}

// NewIndex creates a schema index over the given embedder and store.
func NewIndex(embedder Embedder, store vector.Store, logger *zap.Logger) *Index {
	return &Index{
		embedder: embedder,
		store:    store,
		logger:   logger.Named("index"),
	}
}

// Refresh renders and embeds all units, then replaces the index
// generation in one atomic swap. On any error the previous generation
// stays in place.
func (ix *Index) Refresh(ctx context.Context, units []Unit) error {
	texts := make([]string, len(units))
	ids := make([]string, len(units))
	for i, u := range units {
		texts[i] = Render(u)
		ids[i] = u.QualifiedName()
	}

	entries := make([]vector.Entry, len(units))
	if len(units) > 0 {
		embeddings, err := ix.embedder.CreateEmbeddings(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed schema units: %w", err)
		}
		for i := range units {
			entries[i] = vector.Entry{
				ID:        ids[i],
				Text:      texts[i],
				Embedding: embeddings[i],
			}
		}
	}

	ix.store.UpsertAll(entries)
	ix.refreshed.Store(true)
	ix.logger.Info("schema index refreshed", zap.Int("units", len(entries)))
	return nil
}

// Search returns the k most relevant units for the query text, highest
// similarity first. k is clamped to MaxTopK. Returns
// apperrors.ErrIndexEmpty if no refresh has completed yet.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Entry, error) {
	if !ix.refreshed.Load() {
		return nil, apperrors.ErrIndexEmpty
	}
	if ix.store.Len() == 0 {
		return []Entry{}, nil
	}
	if k > MaxTopK {
		k = MaxTopK
	}

	vec, err := ix.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches := ix.store.Query(vec, k)
	entries := make([]Entry, len(matches))
	for i, m := range matches {
		entries[i] = Entry{UnitID: m.ID, Text: m.Text, Score: m.Score}
	}
	return entries, nil
}

// Snapshot returns the current generation's entries in stable order,
// without scores.
func (ix *Index) Snapshot() []Entry {
	all := ix.store.All()
	entries := make([]Entry, len(all))
	for i, e := range all {
		entries[i] = Entry{UnitID: e.ID, Text: e.Text}
	}
	return entries
}

// UnitNames returns the qualified names of all units in the current
// generation, in stable order.
func (ix *Index) UnitNames() []string {
	all := ix.store.All()
	names := make([]string, len(all))
	for i, e := range all {
		names[i] = e.ID
	}
	return names
}
