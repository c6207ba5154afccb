// Package ollama embeds text through a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
)

const (
	// DefaultBaseURL is where a stock Ollama install listens.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is the embedding model pulled by the setup docs.
	DefaultModel = "nomic-embed-text"
	// DefaultTimeout bounds a single embedding request.
	DefaultTimeout = 30 * time.Second
	// DefaultDimensions is the vector size nomic-embed-text produces.
	DefaultDimensions = 768

	retryAttempts = 5
	retryBase     = 500 * time.Millisecond
)

// Config holds the connection settings for the Ollama embedding service.
type Config struct {
	BaseURL    string        // default http://localhost:11434
	Model      string        // default nomic-embed-text
	Timeout    time.Duration // per-request, default 30s
	Dimensions int           // vector size, model-dependent
}

// withDefaults fills unset fields with the package defaults.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Dimensions == 0 {
		c.Dimensions = DefaultDimensions
	}
	return c
}

// EmbeddingService talks to the Ollama HTTP API.
type EmbeddingService struct {
	client     *http.Client
	baseURL    string
	model      string
	dimensions int
}

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// NewEmbeddingService creates an Ollama-backed embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	cfg = cfg.withDefaults()
	return &EmbeddingService{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding vector for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := s.post(ctx, "/api/embeddings", embedRequest{Model: s.model, Prompt: text})
	if err != nil {
		return nil, err
	}

	var embedResp embedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return asFloat32(embedResp.Embedding), nil
}

// EmbedBatch embeds each text in turn. The Ollama embeddings endpoint
// takes one prompt per call, so the batch is sequential.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vector, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

// Dimensions returns the vector size this service produces.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks connectivity with a cheap request that generates nothing.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, body)
}

// Close implements driven.EmbeddingService. Plain HTTP holds nothing
// to release.
func (s *EmbeddingService) Close() error {
	return nil
}

// post marshals payload and sends it, retrying throttled and failed
// attempts with Fibonacci backoff.
func (s *EmbeddingService) post(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var body []byte
	backoff := retry.WithMaxRetries(retryAttempts-1, retry.NewFibonacci(retryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var attemptErr error
		body, attemptErr = s.send(ctx, path, encoded)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// send performs one POST attempt. A 429 or 5xx answer comes back as a
// retryable error, any other non-200 status is permanent.
func (s *EmbeddingService) send(ctx context.Context, path string, encoded []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, retry.RetryableError(apiError(resp.StatusCode, body))
	default:
		return nil, apiError(resp.StatusCode, body)
	}
}

func apiError(status int, body []byte) error {
	return fmt.Errorf("ollama error (status %d): %s", status, body)
}

func asFloat32(values []float64) []float32 {
	converted := make([]float32, len(values))
	for i, v := range values {
		converted[i] = float32(v)
	}
	return converted
}
