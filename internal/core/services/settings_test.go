package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-labs/wayfarer-cli/internal/adapters/driven/storage/memory"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// mockAIValidator implements driven.AIConfigValidator.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error

	embeddingCalls int
	llmCalls       int
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	m.embeddingCalls++
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.llmCalls++
	return m.llmErr
}

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)

	// Everything should match the built-in configuration.
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.Plan.DailyBudgetEUR, settings.Plan.DailyBudgetEUR)
	assert.Equal(t, defaults.Plan.MaxWalkingKm, settings.Plan.MaxWalkingKm)
	assert.Equal(t, defaults.Plan.MaxIterations, settings.Plan.MaxIterations)
	assert.Equal(t, defaults.Plan.SourceTimeout, settings.Plan.SourceTimeout)
	assert.Equal(t, defaults.Plan.RetrievalK, settings.Plan.RetrievalK)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.model", "text-embedding-3-large")
	_ = store.Set("plan.daily_budget_eur", 75.0)
	_ = store.Set("plan.max_iterations", 5)
	_ = store.Set("plan.source_timeout", "3s")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, 75.0, settings.Plan.DailyBudgetEUR)
	assert.Equal(t, 5, settings.Plan.MaxIterations)
	assert.Equal(t, 3*time.Second, settings.Plan.SourceTimeout)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")
	_ = store.Set("plan.source_timeout", "not a duration")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	// Unparsable entries must not leak through.
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Plan.SourceTimeout, settings.Plan.SourceTimeout)
}

func TestSettingsService_Get_NegativeTimeoutReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("plan.source_timeout", "-5s")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().Plan.SourceTimeout, settings.Plan.SourceTimeout)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
			Model:    "text-embedding-3-small",
			APIKey:   "sk-test-key",
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderAnthropic,
			Model:    "claude-3-5-sonnet-latest",
			APIKey:   "sk-ant-test",
		},
		Plan: domain.PlanSettings{
			DailyBudgetEUR: 80,
			MaxWalkingKm:   12,
			MaxIterations:  4,
			SourceTimeout:  10 * time.Second,
			RetrievalK:     8,
		},
	}

	err := service.Save(settings)
	require.NoError(t, err)

	// Read back through the service.
	retrieved, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, retrieved.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", retrieved.Embedding.Model)
	assert.Equal(t, "sk-test-key", retrieved.Embedding.APIKey)
	assert.Equal(t, domain.AIProviderAnthropic, retrieved.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", retrieved.LLM.Model)
	assert.Equal(t, "sk-ant-test", retrieved.LLM.APIKey)
	assert.Equal(t, 80.0, retrieved.Plan.DailyBudgetEUR)
	assert.Equal(t, 12.0, retrieved.Plan.MaxWalkingKm)
	assert.Equal(t, 4, retrieved.Plan.MaxIterations)
	assert.Equal(t, 10*time.Second, retrieved.Plan.SourceTimeout)
	assert.Equal(t, 8, retrieved.Plan.RetrievalK)
}

func TestSettingsService_Save_SkipsEmptyAPIKeys(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := service.GetDefaults()
	settings.Embedding.Provider = domain.AIProviderOllama

	err := service.Save(&settings)
	require.NoError(t, err)

	_, exists := store.Get("embedding.api_key")
	assert.False(t, exists, "empty API keys are never written")
	_, exists = store.Get("llm.api_key")
	assert.False(t, exists)
}

func TestSettingsService_SetEmbeddingProvider_Valid(t *testing.T) {
	tests := []struct {
		name        string
		provider    domain.AIProvider
		model       string
		apiKey      string
		wantModel   string
		wantBaseURL string
	}{
		{
			name:        "ollama_with_defaults",
			provider:    domain.AIProviderOllama,
			wantModel:   "nomic-embed-text",
			wantBaseURL: "http://localhost:11434",
		},
		{
			name:      "openai_with_key",
			provider:  domain.AIProviderOpenAI,
			apiKey:    "sk-test",
			wantModel: "text-embedding-3-small",
		},
		{
			name:      "explicit_model_wins",
			provider:  domain.AIProviderOpenAI,
			model:     "text-embedding-3-large",
			apiKey:    "sk-test",
			wantModel: "text-embedding-3-large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, nil)

			err := service.SetEmbeddingProvider(tt.provider, tt.model, tt.apiKey)

			require.NoError(t, err)
			settings, _ := service.Get()
			assert.Equal(t, tt.provider, settings.Embedding.Provider)
			assert.Equal(t, tt.wantModel, settings.Embedding.Model)
			assert.Equal(t, tt.wantBaseURL, settings.Embedding.BaseURL)
			assert.True(t, settings.Embedding.IsConfigured())
		})
	}
}

func TestSettingsService_SetEmbeddingProvider_RequiresAPIKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")

	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestSettingsService_SetEmbeddingProvider_RejectsNonEmbeddingProvider(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "sk-ant")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support embeddings")
}

func TestSettingsService_SetEmbeddingProvider_Invalid(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetEmbeddingProvider("bogus", "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid embedding provider")
}

func TestSettingsService_SetLLMProvider_Valid(t *testing.T) {
	tests := []struct {
		name      string
		provider  domain.AIProvider
		apiKey    string
		wantModel string
	}{
		{"ollama", domain.AIProviderOllama, "", "llama3.2"},
		{"openai", domain.AIProviderOpenAI, "sk-test", "gpt-4o-mini"},
		{"anthropic", domain.AIProviderAnthropic, "sk-ant", "claude-3-5-sonnet-latest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, nil)

			err := service.SetLLMProvider(tt.provider, "", tt.apiKey)

			require.NoError(t, err)
			settings, _ := service.Get()
			assert.Equal(t, tt.provider, settings.LLM.Provider)
			assert.Equal(t, tt.wantModel, settings.LLM.Model)
			assert.True(t, settings.LLM.IsConfigured())
		})
	}
}

func TestSettingsService_SetLLMProvider_RequiresAPIKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetLLMProvider(domain.AIProviderAnthropic, "", "")

	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestSettingsService_Validate_UnconfiguredProviders(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings wizard")
}

func TestSettingsService_Validate_ConfiguredPasses(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)
	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))
	require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))

	assert.NoError(t, service.Validate())
}

func TestSettingsService_Validate_PlanLimits(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr string
	}{
		{"negative_iterations", "plan.max_iterations", -1, "max iterations must be positive"},
		{"negative_k", "plan.retrieval_k", -3, "retrieval k must be positive"},
		{"k_over_cap", "plan.retrieval_k", domain.MaxRetrievalResults + 1, "exceeds the cap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, nil)
			require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))
			require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))
			_ = store.Set(tt.key, tt.value)

			err := service.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("plan.max_iterations", 9)
	service := NewSettingsService(store, nil)

	defaults := service.GetDefaults()

	assert.Equal(t, domain.DefaultAppSettings(), defaults, "defaults ignore stored values")
}

func TestSettingsService_ValidateEmbeddingConfig(t *testing.T) {
	store := memory.NewConfigStore()
	validator := &mockAIValidator{embeddingErr: errors.New("connection refused")}
	service := NewSettingsService(store, validator)

	err := service.ValidateEmbeddingConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 1, validator.embeddingCalls)
}

func TestSettingsService_ValidateLLMConfig(t *testing.T) {
	store := memory.NewConfigStore()
	validator := &mockAIValidator{}
	service := NewSettingsService(store, validator)

	assert.NoError(t, service.ValidateLLMConfig())
	assert.Equal(t, 1, validator.llmCalls)
}

func TestSettingsService_ValidateConfigs_NilValidator(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	assert.NoError(t, service.ValidateEmbeddingConfig())
	assert.NoError(t, service.ValidateLLMConfig())
}
