// Package ollama generates text through a local Ollama server.
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
	// DefaultLLMModel is the generation model pulled by the setup docs.
	DefaultLLMModel = "llama3.2"
	// DefaultLLMTimeout bounds a single completion. Generation on CPU
	// can be slow, so it is much longer than the embedding timeout.
	DefaultLLMTimeout = 120 * time.Second

	retryAttempts = 5
	retryBase     = 500 * time.Millisecond
)

// LLMConfig holds the connection settings for the Ollama LLM service.
type LLMConfig struct {
	BaseURL string        // default http://localhost:11434
	Model   string        // default llama3.2
	Timeout time.Duration // per-request, default 120s
}

// withDefaults fills unset fields with the package defaults.
func (c LLMConfig) withDefaults() LLMConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultLLMModel
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultLLMTimeout
	}
	return c
}

// LLMService talks to the Ollama generate API.
type LLMService struct {
	client  *http.Client
	baseURL string
	model   string
}

var _ driven.LLMService = (*LLMService)(nil)

// NewLLMService creates an Ollama-backed LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	cfg = cfg.withDefaults()
	return &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"` // always false, the reply arrives in one piece
	Options *options `json:"options,omitempty"`
}

type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate produces a completion for the prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	reqBody := generateRequest{Model: s.model, Prompt: prompt}
	if opts.MaxTokens > 0 || opts.Temperature > 0 || len(opts.StopWords) > 0 {
		reqBody.Options = &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.StopWords,
		}
	}

	body, err := s.post(ctx, "/api/generate", reqBody)
	if err != nil {
		return "", err
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return genResp.Response, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks connectivity with a cheap request that generates nothing.
func (s *LLMService) Ping(ctx context.Context) error {
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

// Close implements driven.LLMService. Plain HTTP holds nothing to
// release.
func (s *LLMService) Close() error {
	return nil
}

// post marshals payload and sends it, retrying throttled and failed
// attempts with Fibonacci backoff.
func (s *LLMService) post(ctx context.Context, path string, payload any) ([]byte, error) {
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
func (s *LLMService) send(ctx context.Context, path string, encoded []byte) ([]byte, error) {
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
