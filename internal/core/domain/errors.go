package domain

import "errors"

// Sentinel errors the services branch on. Infrastructure failures get
// wrapped around these rather than replacing them.
var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists means the entity is already present.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput covers malformed input with no more specific
	// sentinel.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRequest indicates a planning request that cannot be
	// executed (missing destination, negative duration, unknown tier).
	ErrInvalidRequest = errors.New("invalid plan request")

	// ErrInvalidRecord indicates a knowledge record whose shape does
	// not match its category or that lacks required fields.
	ErrInvalidRecord = errors.New("invalid knowledge record")

	// ErrInvalidClockTime indicates a time of day outside 00:00-23:59.
	ErrInvalidClockTime = errors.New("invalid clock time")

	// ErrInvalidTimeWindow indicates a window that ends before it
	// starts or falls outside one day.
	ErrInvalidTimeWindow = errors.New("invalid time window")

	// ErrInvalidItinerary indicates a structurally broken itinerary
	// (misnumbered days, overlapping or disordered item windows).
	ErrInvalidItinerary = errors.New("invalid itinerary")

	// ErrUnparsableItinerary indicates generated output that could
	// not be decoded into an itinerary. Planning treats it as a
	// validation failure, never as a fatal error.
	ErrUnparsableItinerary = errors.New("unparsable itinerary output")

	// AI provider errors.

	// ErrLLMUnavailable means no LLM service is configured. Planning
	// cannot generate itineraries without one.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrInvalidProvider indicates an unrecognised AI provider name.
	ErrInvalidProvider = errors.New("invalid AI provider")

	// ErrMissingAPIKey indicates a cloud provider without an API key.
	ErrMissingAPIKey = errors.New("API key required")

	// ErrRateLimited indicates the provider API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrGenerationFailed indicates the LLM call itself failed.
	ErrGenerationFailed = errors.New("generation failed")

	// Index and Ingestion Errors.

	// ErrIndexClosed indicates the vector index has been closed.
	ErrIndexClosed = errors.New("vector index closed")

	// ErrIngestInProgress indicates an ingestion run is already active.
	ErrIngestInProgress = errors.New("ingestion in progress")
)
