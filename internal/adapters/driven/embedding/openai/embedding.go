// Package openai embeds text through the OpenAI embeddings API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/ports/driven"
)

const (
	// DefaultBaseURL is the public OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel balances cost against retrieval quality.
	DefaultModel = "text-embedding-3-small"
	// DefaultTimeout bounds a single embedding request.
	DefaultTimeout = 60 * time.Second
	// DefaultRequestsPerMinute stays under the entry-tier rate limit.
	DefaultRequestsPerMinute = 60

	retryAttempts = 5
	retryBase     = 500 * time.Millisecond
)

// modelDimensions maps the known embedding models to their native
// vector sizes.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds the connection settings for the OpenAI embedding service.
type Config struct {
	APIKey            string
	BaseURL           string        // default https://api.openai.com/v1
	Model             string        // default text-embedding-3-small
	Timeout           time.Duration // per-request, default 60s
	Dimensions        int           // overrides the model's native size
	RequestsPerMinute int           // client-side throttle, default 60
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
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = DefaultRequestsPerMinute
	}
	return c
}

// resolveDimensions picks the vector size: an explicit override wins,
// then the model's native size, then the default model's.
func resolveDimensions(cfg Config) int {
	if cfg.Dimensions > 0 {
		return cfg.Dimensions
	}
	if dims, ok := modelDimensions[cfg.Model]; ok {
		return dims
	}
	return modelDimensions[DefaultModel]
}

// EmbeddingService talks to the OpenAI embeddings API.
type EmbeddingService struct {
	client     *http.Client
	limiter    *rate.Limiter
	baseURL    string
	model      string
	apiKey     string
	dimensions int
}

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// NewEmbeddingService creates an OpenAI-backed embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	cfg = cfg.withDefaults()

	return &EmbeddingService{
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		dimensions: resolveDimensions(cfg),
	}, nil
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Embed returns the embedding vector for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("openai: no embedding returned")
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in one request. Results come back in
// input order regardless of how the API interleaves them.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := embeddingRequest{Model: s.model, Input: texts}
	// Only the v3 models accept an explicit dimensions parameter.
	if strings.HasPrefix(s.model, "text-embedding-3") {
		reqBody.Dimensions = s.dimensions
	}

	body, err := s.post(ctx, "/embeddings", reqBody)
	if err != nil {
		return nil, err
	}

	var embedResp embeddingResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if embedResp.Error != nil {
		return nil, fmt.Errorf("openai error: %s", embedResp.Error.Message)
	}
	if len(embedResp.Data) != len(texts) {
		return nil, fmt.Errorf("openai: expected %d embeddings, got %d", len(texts), len(embedResp.Data))
	}

	vectors := make([][]float32, len(embedResp.Data))
	for _, item := range embedResp.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("openai: embedding index %d out of range", item.Index)
		}
		vectors[item.Index] = asFloat32(item.Embedding)
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

// Ping checks connectivity and key validity with a cheap request that
// generates nothing.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: create ping request: %w", err)
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, body)
}

// Close implements driven.EmbeddingService. Plain HTTP holds nothing
// to release.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
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

// send performs one POST attempt after clearing the rate limiter. A 429
// or 5xx answer comes back as a retryable error, any other non-200
// status is permanent.
func (s *EmbeddingService) send(ctx context.Context, path string, encoded []byte) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.authorize(req)

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
	return fmt.Errorf("openai error (status %d): %s", status, body)
}

func asFloat32(values []float64) []float32 {
	converted := make([]float32, len(values))
	for i, v := range values {
		converted[i] = float32(v)
	}
	return converted
}
