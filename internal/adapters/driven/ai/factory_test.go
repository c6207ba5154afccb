package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

func ollamaEmbeddingSettings() *domain.EmbeddingSettings {
	return &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://localhost:11434",
		Model:    "nomic-embed-text",
	}
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantService bool
		wantErr     string
	}{
		{
			name: "nil settings",
		},
		{
			name:     "unconfigured settings",
			settings: &domain.EmbeddingSettings{},
		},
		{
			name:        "ollama",
			settings:    ollamaEmbeddingSettings(),
			wantService: true,
		},
		{
			name: "openai",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
			wantService: true,
		},
		{
			name: "anthropic has no embeddings",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantErr: "anthropic does not support embeddings",
		},
		{
			// An unknown provider never counts as configured.
			name: "unknown provider",
			settings: &domain.EmbeddingSettings{
				Provider: "mystery",
				APIKey:   "test-key",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if svc != nil {
				defer svc.Close()
			}

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantService, svc != nil)
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.LLMSettings
		wantService bool
	}{
		{
			name: "nil settings",
		},
		{
			name:     "unconfigured settings",
			settings: &domain.LLMSettings{},
		},
		{
			name: "ollama",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "llama3.2",
			},
			wantService: true,
		},
		{
			name: "openai",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
			wantService: true,
		},
		{
			name: "anthropic",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "claude-3-5-sonnet-latest",
			},
			wantService: true,
		},
		{
			name: "unknown provider",
			settings: &domain.LLMSettings{
				Provider: "mystery",
				APIKey:   "test-key",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			if svc != nil {
				defer svc.Close()
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantService, svc != nil)
		})
	}
}

func TestNewOllamaEmbedding_KnownModelDimensions(t *testing.T) {
	svc := newOllamaEmbedding(ollamaEmbeddingSettings())
	require.NotNil(t, svc)
	defer svc.Close()

	assert.Equal(t, domain.EmbeddingDimensions()["nomic-embed-text"], svc.Dimensions())
}

func TestNewOllamaEmbedding_UnknownModelFallsBack(t *testing.T) {
	settings := ollamaEmbeddingSettings()
	settings.Model = "custom-finetune"

	svc := newOllamaEmbedding(settings)
	require.NotNil(t, svc)
	defer svc.Close()

	assert.Positive(t, svc.Dimensions())
}

func TestProviderConstructors(t *testing.T) {
	t.Run("openai embedding", func(t *testing.T) {
		svc, err := newOpenAIEmbedding(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
			APIKey:   "test-key",
			BaseURL:  "https://api.openai.com/v1",
			Model:    "text-embedding-3-small",
		})
		require.NoError(t, err)
		require.NotNil(t, svc)
		svc.Close()
	})

	t.Run("ollama llm", func(t *testing.T) {
		svc := newOllamaLLM(&domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  "http://localhost:11434",
			Model:    "llama3.2",
		})
		require.NotNil(t, svc)
		svc.Close()
	})

	t.Run("openai llm", func(t *testing.T) {
		svc, err := newOpenAILLM(&domain.LLMSettings{
			Provider: domain.AIProviderOpenAI,
			APIKey:   "test-key",
			BaseURL:  "https://api.openai.com/v1",
			Model:    "gpt-4o-mini",
		})
		require.NoError(t, err)
		require.NotNil(t, svc)
		svc.Close()
	})

	t.Run("anthropic llm", func(t *testing.T) {
		svc, err := newAnthropicLLM(&domain.LLMSettings{
			Provider: domain.AIProviderAnthropic,
			APIKey:   "test-key",
			BaseURL:  "https://api.anthropic.com",
			Model:    "claude-3-5-sonnet-latest",
		})
		require.NoError(t, err)
		require.NotNil(t, svc)
		svc.Close()
	})
}
