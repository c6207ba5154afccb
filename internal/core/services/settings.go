package services

import (
	"fmt"
	"time"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driving"
)

var _ driving.SettingsService = (*SettingsService)(nil)

// defaultLocalBaseURL is where a local provider listens when the user
// never supplied an address.
const defaultLocalBaseURL = "http://localhost:11434"

// providerKeys names the config entries of one AI provider table.
type providerKeys struct {
	provider string
	model    string
	baseURL  string
	apiKey   string
}

//nolint:gosec // G101: config key names, not credentials.
var (
	embeddingKeys = providerKeys{
		provider: "embedding.provider",
		model:    "embedding.model",
		baseURL:  "embedding.base_url",
		apiKey:   "embedding.api_key",
	}
	llmKeys = providerKeys{
		provider: "llm.provider",
		model:    "llm.model",
		baseURL:  "llm.base_url",
		apiKey:   "llm.api_key",
	}
)

// Config keys for the plan table.
const (
	keyPlanBudget     = "plan.daily_budget_eur"
	keyPlanWalking    = "plan.max_walking_km"
	keyPlanIterations = "plan.max_iterations"
	keyPlanTimeout    = "plan.source_timeout"
	keyPlanK          = "plan.retrieval_k"
)

// SettingsService reads and writes application settings through a
// ConfigStore and checks provider reachability through an optional
// AIConfigValidator.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service. The validator may
// be nil, in which case the config ping methods report success.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{configStore: configStore, aiValidator: aiValidator}
}

// Get retrieves current application settings. Entries that are unset
// or unusable fall back to the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	store := s.configStore

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: providerOr(store, embeddingKeys.provider, defaults.Embedding.Provider),
			Model:    stringOr(store, embeddingKeys.model, defaults.Embedding.Model),
			// No defaults here: cloud providers run with both left empty.
			BaseURL: store.GetString(embeddingKeys.baseURL),
			APIKey:  store.GetString(embeddingKeys.apiKey),
		},
		LLM: domain.LLMSettings{
			Provider: providerOr(store, llmKeys.provider, defaults.LLM.Provider),
			Model:    stringOr(store, llmKeys.model, defaults.LLM.Model),
			BaseURL:  store.GetString(llmKeys.baseURL),
			APIKey:   store.GetString(llmKeys.apiKey),
		},
		Plan: domain.PlanSettings{
			DailyBudgetEUR: floatOr(store, keyPlanBudget, defaults.Plan.DailyBudgetEUR),
			MaxWalkingKm:   floatOr(store, keyPlanWalking, defaults.Plan.MaxWalkingKm),
			MaxIterations:  intOr(store, keyPlanIterations, defaults.Plan.MaxIterations),
			SourceTimeout:  durationOr(store, keyPlanTimeout, defaults.Plan.SourceTimeout),
			RetrievalK:     intOr(store, keyPlanK, defaults.Plan.RetrievalK),
		},
	}

	return settings, nil
}

// Save writes every settings table back to the config store.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.saveSlot(embeddingKeys, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey); err != nil {
		return err
	}
	if err := s.saveSlot(llmKeys, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey); err != nil {
		return err
	}

	plan := []struct {
		key   string
		value any
	}{
		{keyPlanBudget, settings.Plan.DailyBudgetEUR},
		{keyPlanWalking, settings.Plan.MaxWalkingKm},
		{keyPlanIterations, settings.Plan.MaxIterations},
		{keyPlanTimeout, settings.Plan.SourceTimeout.String()},
		{keyPlanK, settings.Plan.RetrievalK},
	}
	for _, entry := range plan {
		if err := s.configStore.Set(entry.key, entry.value); err != nil {
			return fmt.Errorf("save %s: %w", entry.key, err)
		}
	}

	return nil
}

// saveSlot writes one provider table. The API key is written only when
// present so a save never clears a previously stored key.
func (s *SettingsService) saveSlot(keys providerKeys, provider domain.AIProvider, model, baseURL, apiKey string) error {
	if err := s.configStore.Set(keys.provider, provider.String()); err != nil {
		return fmt.Errorf("save %s: %w", keys.provider, err)
	}
	if err := s.configStore.Set(keys.model, model); err != nil {
		return fmt.Errorf("save %s: %w", keys.model, err)
	}
	if err := s.configStore.Set(keys.baseURL, baseURL); err != nil {
		return fmt.Errorf("save %s: %w", keys.baseURL, err)
	}
	if apiKey == "" {
		return nil
	}
	if err := s.configStore.Set(keys.apiKey, apiKey); err != nil {
		return fmt.Errorf("save %s: %w", keys.apiKey, err)
	}
	return nil
}

// SetEmbeddingProvider switches the embedding backend, filling model
// and base URL from defaults where the caller leaves them blank.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !supportsEmbeddings(provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: %s", domain.ErrMissingAPIKey, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Embedding = domain.EmbeddingSettings{
		Provider: provider,
		Model:    resolveModel(provider, model, settings.Embedding.Model, domain.DefaultEmbeddingModels()),
		BaseURL:  resolveBaseURL(provider, settings.Embedding.BaseURL),
		APIKey:   apiKey,
	}
	return s.Save(settings)
}

// SetLLMProvider switches the generation backend under the same rules
// as SetEmbeddingProvider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: %s", domain.ErrMissingAPIKey, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.LLM = domain.LLMSettings{
		Provider: provider,
		Model:    resolveModel(provider, model, settings.LLM.Model, domain.DefaultLLMModels()),
		BaseURL:  resolveBaseURL(provider, settings.LLM.BaseURL),
		APIKey:   apiKey,
	}
	return s.Save(settings)
}

// supportsEmbeddings reports whether provider appears in the embedding
// provider list. Anthropic offers no embedding endpoint.
func supportsEmbeddings(provider domain.AIProvider) bool {
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			return true
		}
	}
	return false
}

// resolveModel picks the model to store with a provider change. An
// explicit choice wins, then the provider default, then whatever was
// stored before.
func resolveModel(provider domain.AIProvider, requested, current string, defaults map[domain.AIProvider]string) string {
	if requested != "" {
		return requested
	}
	if fallback, ok := defaults[provider]; ok {
		return fallback
	}
	return current
}

// resolveBaseURL picks the base URL to store with a provider change.
// Local providers keep a stored address or fall back to the standard
// one. Cloud providers always use their canonical endpoint.
func resolveBaseURL(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return defaultLocalBaseURL
	}
	return current
}

// Validate checks that current settings allow planning: both AI
// providers configured and plan limits sane.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("planning requires an embedding provider; run the settings wizard")
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("planning requires an LLM provider; run the settings wizard")
	}

	if settings.Plan.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", settings.Plan.MaxIterations)
	}
	if settings.Plan.RetrievalK <= 0 {
		return fmt.Errorf("retrieval k must be positive, got %d", settings.Plan.RetrievalK)
	}
	if settings.Plan.RetrievalK > domain.MaxRetrievalResults {
		return fmt.Errorf("retrieval k %d exceeds the cap of %d",
			settings.Plan.RetrievalK, domain.MaxRetrievalResults)
	}
	if settings.Plan.SourceTimeout <= 0 {
		return fmt.Errorf("source timeout must be positive, got %s", settings.Plan.SourceTimeout)
	}

	return nil
}

// GetDefaults returns the built-in default settings, ignoring the store.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig pings the configured embedding provider.
// Reports success when no validator is wired in.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig pings the configured LLM provider. Reports success
// when no validator is wired in.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Config lookups that fall back to a default when the stored value is
// missing or unusable.

func stringOr(store driven.ConfigStore, key, fallback string) string {
	if v := store.GetString(key); v != "" {
		return v
	}
	return fallback
}

func intOr(store driven.ConfigStore, key string, fallback int) int {
	if v := store.GetInt(key); v != 0 {
		return v
	}
	return fallback
}

func floatOr(store driven.ConfigStore, key string, fallback float64) float64 {
	if v := store.GetFloat(key); v != 0 {
		return v
	}
	return fallback
}

func durationOr(store driven.ConfigStore, key string, fallback time.Duration) time.Duration {
	v := store.GetString(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func providerOr(store driven.ConfigStore, key string, fallback domain.AIProvider) domain.AIProvider {
	p := domain.AIProvider(store.GetString(key))
	if !p.IsValid() {
		return fallback
	}
	return p
}
