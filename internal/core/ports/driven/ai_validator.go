package driven

import "github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"

// AIConfigValidator proves provider settings actually work before the
// settings service persists them, usually by constructing the adapter
// and pinging it.
type AIConfigValidator interface {
	// ValidateEmbedding checks an embedding configuration. Unconfigured
	// settings pass; only a configured provider that cannot be reached
	// fails.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM checks an LLM configuration under the same rules.
	ValidateLLM(config *domain.LLMSettings) error
}
