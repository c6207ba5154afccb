package driving

import "github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"

// SettingsService owns reading, changing and sanity-checking the
// application settings the planner runs under.
type SettingsService interface {
	// Get loads the current settings, falling back to defaults for
	// anything unset.
	Get() (*domain.AppSettings, error)

	// Save writes the full settings back to the store.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider switches the embedding backend. The API key
	// is ignored for providers that do not need one.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider switches the generation backend under the same
	// rules as SetEmbeddingProvider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks if current settings allow planning: both AI
	// providers configured and plan limits sane.
	Validate() error

	// GetDefaults returns the built-in settings used before any
	// configuration exists.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider to
	// prove it is reachable.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the configured LLM provider to prove it is
	// reachable.
	ValidateLLMConfig() error
}
