package domain

import "time"

const unknownDescription = "Unknown"

// MaxRetrievalResults caps how many candidates one retriever may
// return regardless of the configured k.
const MaxRetrievalResults = 10

// AIProvider names an AI backend usable for embeddings, generation or
// both.
type AIProvider string

// The providers the adapter factories know how to build.
const (
	AIProviderOllama    AIProvider = "ollama"    // local Ollama instance
	AIProviderOpenAI    AIProvider = "openai"    // OpenAI cloud API
	AIProviderAnthropic AIProvider = "anthropic" // Anthropic cloud API
)

// IsValid reports whether p names a known provider.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey reports whether the provider wants a credential.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal reports whether the provider runs on the user's machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String makes the provider printable in logs and prompts.
func (p AIProvider) String() string {
	return string(p)
}

// Description is the label the provider pickers show.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings selects and configures the embedding backend.
type EmbeddingSettings struct {
	Provider AIProvider // which backend serves embeddings
	Model    string     // model name as the backend knows it
	BaseURL  string     // endpoint override, mainly for Ollama
	APIKey   string     // credential for the cloud providers
}

// IsConfigured reports whether these settings can build a working
// client: a known provider plus whatever credential it demands.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings selects and configures the generation backend.
type LLMSettings struct {
	Provider AIProvider // which backend drafts itineraries
	Model    string     // model name as the backend knows it
	BaseURL  string     // endpoint override, mainly for Ollama
	APIKey   string     // credential for the cloud providers
}

// IsConfigured mirrors EmbeddingSettings.IsConfigured for the LLM
// side.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// PlanSettings holds planning loop configuration.
type PlanSettings struct {
	// DailyBudgetEUR is the default spending ceiling per day, applied
	// when a request does not carry its own.
	DailyBudgetEUR float64

	// MaxWalkingKm is the default walking ceiling per day.
	MaxWalkingKm float64

	// MaxIterations bounds the replan loop.
	MaxIterations int

	// SourceTimeout bounds each knowledge source's retrieval task.
	SourceTimeout time.Duration

	// RetrievalK is how many candidates each source returns.
	RetrievalK int
}

// AppSettings bundles everything the application persists.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Plan      PlanSettings
}

// DefaultAppSettings returns the built-in configuration: planning
// limits filled in, both AI providers left empty until the user picks
// them in the settings flow.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Plan: PlanSettings{
			DailyBudgetEUR: 50.0,
			MaxWalkingKm:   10.0,
			MaxIterations:  3,
			SourceTimeout:  8 * time.Second,
			RetrievalK:     5,
		},
	}
}

// AllEmbeddingProviders lists the backends with an embeddings API, in
// the order the pickers show them. Anthropic is absent because it has
// none.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders lists the backends that can generate text, in picker
// order.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels maps each embedding provider to the model
// prefilled when the user picks it.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels maps each LLM provider to its prefilled model.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions maps the models we recognise to their vector
// width. Indices are created at this width, so changing a model means
// reindexing.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
