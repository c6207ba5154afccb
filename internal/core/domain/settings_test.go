package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		want     bool
	}{
		{name: "ollama", provider: AIProviderOllama, want: true},
		{name: "openai", provider: AIProviderOpenAI, want: true},
		{name: "anthropic", provider: AIProviderAnthropic, want: true},
		{name: "empty string", provider: AIProvider(""), want: false},
		{name: "unknown provider", provider: AIProvider("gemini"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		want     bool
	}{
		{name: "unset provider", settings: EmbeddingSettings{}, want: false},
		{
			name:     "local provider without key",
			settings: EmbeddingSettings{Provider: AIProviderOllama, Model: "nomic-embed-text"},
			want:     true,
		},
		{
			name:     "cloud provider without key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI, Model: "text-embedding-3-small"},
			want:     false,
		},
		{
			name: "cloud provider with key",
			settings: EmbeddingSettings{
				Provider: AIProviderOpenAI,
				Model:    "text-embedding-3-small",
				APIKey:   "sk-test",
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	// AI providers stay unconfigured until the user sets them up.
	assert.False(t, settings.Embedding.IsConfigured())
	assert.False(t, settings.LLM.IsConfigured())

	assert.Equal(t, 50.0, settings.Plan.DailyBudgetEUR)
	assert.Equal(t, 10.0, settings.Plan.MaxWalkingKm)
	assert.Equal(t, 3, settings.Plan.MaxIterations)
	assert.Equal(t, 8*time.Second, settings.Plan.SourceTimeout)
	assert.Equal(t, 5, settings.Plan.RetrievalK)
}

func TestEmbeddingDimensions_KnownModels(t *testing.T) {
	dims := EmbeddingDimensions()

	assert.Equal(t, 768, dims["nomic-embed-text"])
	assert.Equal(t, 384, dims["all-minilm"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
}
