// Package driven declares the outbound interfaces core services call into.
package driven

import "context"

// LLMService provides the text-completion call that turns retrieval
// context into an itinerary draft. Output is best-effort and
// non-deterministic; the planning loop treats non-conforming output
// as a validation failure, never as a crash. Backends include Ollama,
// OpenAI and Anthropic.
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName identifies the model answering Generate calls.
	ModelName() string

	// Ping makes a lightweight request to prove the backend is
	// reachable before planning commits to it.
	Ping(ctx context.Context) error

	// Close frees whatever the implementation holds open.
	Close() error
}

// GenerateOptions tune a single Generate call.
type GenerateOptions struct {
	// MaxTokens caps the completion length. Zero lets the backend
	// apply its own limit.
	MaxTokens int

	// Temperature trades determinism for variety; 0.0 keeps the
	// output as stable as the backend allows.
	Temperature float64

	// StopWords end generation early when the output reaches one.
	StopWords []string
}
