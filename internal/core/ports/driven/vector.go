package driven

import (
	"context"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// VectorIndex provides semantic similarity search over one knowledge
// category. Each category owns its own index instance persisted to its
// own durable location; cross-category search is never performed.
//
// Indices are read-mostly: ingestion writes are serialised before any
// planning request begins, and concurrent reads from retrieval tasks
// are safe.
type VectorIndex interface {
	// Category returns the knowledge category this index serves.
	Category() domain.Category

	// Add inserts records with their embedding vectors. Records and
	// vectors are parallel slices of equal length. Insertion order is
	// retained and breaks search ties.
	Add(ctx context.Context, records []domain.KnowledgeRecord, vectors [][]float32) error

	// Search finds the k nearest records to the query vector. An
	// empty or unrestored index returns an empty result, never an
	// error, so callers need no special-case branch.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Persist writes the index and its record payload to durable
	// storage.
	Persist(ctx context.Context) error

	// Restore loads the index and its record payload from durable
	// storage. Restoring a category that was never persisted yields
	// an empty index.
	Restore(ctx context.Context) error

	// Count returns the number of indexed records.
	Count() int

	// Close frees whatever the implementation holds open.
	Close() error
}

// VectorHit pairs a matched record with how close it came.
type VectorHit struct {
	// Record is the matched knowledge record.
	Record domain.KnowledgeRecord

	// Similarity is the similarity score in [0,1]; higher is closer.
	Similarity float64
}
