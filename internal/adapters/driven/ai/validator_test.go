package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
)

func TestNewConfigValidator(t *testing.T) {
	var validator driven.AIConfigValidator = NewConfigValidator()

	require.NotNil(t, validator)
}

func TestConfigValidator_ValidateEmbedding_SkipsUnconfigured(t *testing.T) {
	v := NewConfigValidator()

	assert.NoError(t, v.ValidateEmbedding(nil))
	assert.NoError(t, v.ValidateEmbedding(&domain.EmbeddingSettings{}))
	assert.NoError(t, v.ValidateEmbedding(&domain.EmbeddingSettings{Provider: "mystery", APIKey: "k"}))
}

func TestConfigValidator_ValidateEmbedding_ConstructionError(t *testing.T) {
	// Fails while building the adapter, before any network call.
	err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{
		Provider: domain.AIProviderAnthropic,
		APIKey:   "test-key",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic does not support embeddings")
}

func TestConfigValidator_ValidateEmbedding_UnreachableProvider(t *testing.T) {
	settings := ollamaEmbeddingSettings()
	settings.BaseURL = "http://localhost:99999" // invalid port, dial fails

	assert.Error(t, NewConfigValidator().ValidateEmbedding(settings))
}

func TestConfigValidator_ValidateLLM_SkipsUnconfigured(t *testing.T) {
	v := NewConfigValidator()

	assert.NoError(t, v.ValidateLLM(nil))
	assert.NoError(t, v.ValidateLLM(&domain.LLMSettings{}))
	assert.NoError(t, v.ValidateLLM(&domain.LLMSettings{Provider: "mystery", APIKey: "k"}))
}

func TestConfigValidator_ValidateLLM_UnreachableProvider(t *testing.T) {
	err := NewConfigValidator().ValidateLLM(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://localhost:99999",
		Model:    "llama3.2",
	})

	assert.Error(t, err)
}
