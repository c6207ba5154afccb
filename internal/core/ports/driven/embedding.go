package driven

import "context"

// EmbeddingService turns text into vectors for the category indices.
// Identical text embeds identically within a process lifetime; nothing
// is promised across model versions, which is why reindexing exists.
//
// VectorIndex stores and searches vectors; this service only produces
// them. Backends include Ollama (nomic-embed-text, all-minilm) and
// OpenAI (text-embedding-3-small, text-embedding-3-large).
type EmbeddingService interface {
	// Embed converts one text into its vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds multiple texts, cheaper than looping Embed
	// where the backend supports batching.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector size the model produces. It must
	// match the VectorIndex configuration.
	Dimensions() int

	// ModelName identifies the model producing the vectors.
	ModelName() string

	// Ping makes a lightweight request to prove the backend is
	// reachable before retrieval commits to it.
	Ping(ctx context.Context) error

	// Close frees whatever the implementation holds open.
	Close() error
}
