// Package ai builds embedding and LLM adapters for whichever provider
// the settings name, and probes provider credentials for the wizard.
package ai

import (
	"fmt"

	ollamaembed "github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driven/llm/openai"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
)

// CreateEmbeddingService builds the embedding adapter matching the
// configured provider. Returns nil without error when the provider is
// not configured, so callers can wire a partial application.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return newOllamaEmbedding(settings), nil
	case domain.AIProviderOpenAI:
		return newOpenAIEmbedding(settings)
	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService builds the LLM adapter matching the configured
// provider. Returns nil without error when the provider is not
// configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return newOllamaLLM(settings), nil
	case domain.AIProviderOpenAI:
		return newOpenAILLM(settings)
	case domain.AIProviderAnthropic:
		return newAnthropicLLM(settings)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

func newOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dims := domain.EmbeddingDimensions()[settings.Model]
	if dims == 0 {
		dims = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dims,
	})
}

func newOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: domain.EmbeddingDimensions()[settings.Model],
	})
}

func newOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func newOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func newAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
