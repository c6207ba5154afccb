// Package memory provides an in-memory vector index backed by
// brute-force cosine similarity. Nothing survives process exit; it
// serves tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
)

var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex for one
// category. Persist and Restore are no-ops.
type Index struct {
	category domain.Category

	mu      sync.RWMutex
	ids     map[string]int
	entries []entry
	dims    int
	closed  bool
}

// entry pairs a record with its embedding. Slice position is
// insertion order and breaks search ties.
type entry struct {
	record domain.KnowledgeRecord
	vector []float32
}

// NewIndex creates an empty index for one category.
func NewIndex(category domain.Category) (*Index, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}
	return &Index{
		category: category,
		ids:      make(map[string]int),
	}, nil
}

// Category returns the knowledge category this index serves.
func (idx *Index) Category() domain.Category {
	return idx.category
}

// Add inserts records with their embedding vectors. Re-adding an
// identifier replaces the stored record in place, so the original
// insertion position is kept.
func (idx *Index) Add(ctx context.Context, records []domain.KnowledgeRecord, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(records) != len(vectors) {
		return fmt.Errorf("%w: %d records with %d vectors", domain.ErrInvalidInput, len(records), len(vectors))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return domain.ErrIndexClosed
	}

	for i := range records {
		rec, vec := records[i], vectors[i]
		if len(vec) == 0 {
			return fmt.Errorf("%w: record %s has an empty vector", domain.ErrInvalidInput, rec.ID)
		}
		if idx.dims == 0 {
			idx.dims = len(vec)
		}
		if len(vec) != idx.dims {
			return fmt.Errorf("%w: record %s vector has %d dimensions, index holds %d",
				domain.ErrInvalidInput, rec.ID, len(vec), idx.dims)
		}

		if pos, ok := idx.ids[rec.ID]; ok {
			idx.entries[pos] = entry{record: rec, vector: vec}
			continue
		}
		idx.ids[rec.ID] = len(idx.entries)
		idx.entries = append(idx.entries, entry{record: rec, vector: vec})
	}
	return nil
}

// Search finds the k nearest records to the query vector. An empty
// index returns an empty result.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil, domain.ErrIndexClosed
	}
	if k <= 0 || len(idx.entries) == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index holds %d",
			domain.ErrInvalidInput, len(query), idx.dims)
	}

	return searchEntries(idx.entries, query, k), nil
}

// Persist is a no-op: the index is ephemeral.
func (idx *Index) Persist(_ context.Context) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return domain.ErrIndexClosed
	}
	return nil
}

// Restore is a no-op: there is never anything to restore.
func (idx *Index) Restore(_ context.Context) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return domain.ErrIndexClosed
	}
	return nil
}

// Count returns the number of indexed records.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close marks the index closed. Further operations fail with
// ErrIndexClosed.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	return nil
}

// searchEntries scores every entry against the query and returns the
// top k. Ties go to the earlier insertion position, which keeps
// results deterministic across runs.
func searchEntries(entries []entry, query []float32, k int) []driven.VectorHit {
	type scored struct {
		position   int
		similarity float64
	}

	scores := make([]scored, len(entries))
	for i := range entries {
		scores[i] = scored{position: i, similarity: cosineSimilarity(query, entries[i].vector)}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		if scores[a].similarity != scores[b].similarity {
			return scores[a].similarity > scores[b].similarity
		}
		return scores[a].position < scores[b].position
	})

	if k > len(scores) {
		k = len(scores)
	}
	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		e := entries[scores[i].position]
		hits[i] = driven.VectorHit{Record: e.record, Similarity: scores[i].similarity}
	}
	return hits
}

// cosineSimilarity maps the cosine of the angle between two equal
// length vectors from [-1,1] onto [0,1]. A zero vector scores 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Float error can push |cos| just past 1
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return (cos + 1) / 2
}
