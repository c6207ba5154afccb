package ai

import (
	"context"
	"time"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// pingTimeout bounds the connectivity probe. Validation runs
// interactively in the settings flow, so it needs to fail fast.
const pingTimeout = 5 * time.Second

// pinger is the probe surface both AI service kinds share.
type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

// ConfigValidator checks provider configurations by constructing the
// real client and issuing a lightweight ping. The settings flow uses
// it to reject bad credentials before they are saved, so a broken key
// never reaches the planning loop.
type ConfigValidator struct{}

// NewConfigValidator returns a validator backed by the package
// factories.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding builds the configured embedding service and probes
// it once. Unconfigured settings pass without a network call.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}
	svc, err := CreateEmbeddingService(config)
	if err != nil || svc == nil {
		return err
	}
	return probe(svc)
}

// ValidateLLM builds the configured LLM service and probes it once,
// under the same rules as ValidateEmbedding.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}
	svc, err := CreateLLMService(config)
	if err != nil || svc == nil {
		return err
	}
	return probe(svc)
}

// probe pings the freshly built service within pingTimeout, then
// closes it.
func probe(svc pinger) error {
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
