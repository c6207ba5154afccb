// Package anthropic generates text through the Anthropic messages API.
package anthropic

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
	// DefaultBaseURL is the public Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"
	// DefaultModel is the current general-purpose Claude alias.
	DefaultModel = "claude-3-5-sonnet-latest"
	// DefaultTimeout bounds a single completion.
	DefaultTimeout = 120 * time.Second
	// DefaultRequestsPerMinute stays under the entry-tier rate limit.
	DefaultRequestsPerMinute = 60

	// anthropicVersion pins the messages API revision.
	anthropicVersion = "2023-06-01"
	// defaultMaxTokens applies when the caller sets no limit. The
	// messages API rejects requests without max_tokens.
	defaultMaxTokens = 1024

	retryAttempts = 5
	retryBase     = 500 * time.Millisecond
)

// Config holds the connection settings for the Anthropic LLM service.
type Config struct {
	APIKey            string
	BaseURL           string        // default https://api.anthropic.com
	Model             string        // default claude-3-5-sonnet-latest
	Timeout           time.Duration // per-request, default 120s
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

// LLMService talks to the Anthropic messages API.
type LLMService struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	model   string
	apiKey  string
}

var _ driven.LLMService = (*LLMService)(nil)

// NewLLMService creates an Anthropic-backed LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	cfg = cfg.withDefaults()

	return &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model         string    `json:"model"`
	Messages      []message `json:"messages"`
	MaxTokens     int       `json:"max_tokens"`
	Temperature   float64   `json:"temperature,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate produces a completion for the prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	reqBody := messagesRequest{
		Model:         s.model,
		Messages:      []message{{Role: "user", Content: prompt}},
		MaxTokens:     maxTokens,
		Temperature:   opts.Temperature,
		StopSequences: opts.StopWords,
	}

	body, err := s.post(ctx, "/v1/messages", reqBody)
	if err != nil {
		return "", err
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if msgResp.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", msgResp.Error.Message)
	}
	if len(msgResp.Content) == 0 {
		return "", errors.New("anthropic: no content blocks returned")
	}

	var text strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks connectivity and key validity with a cheap request that
// generates nothing.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: create ping request: %w", err)
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("anthropic: API returned status %d: %s", resp.StatusCode, body)
}

// Close implements driven.LLMService. Plain HTTP holds nothing to
// release.
func (s *LLMService) Close() error {
	return nil
}

func (s *LLMService) authorize(req *http.Request) {
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
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

// send performs one POST attempt after clearing the rate limiter. A 429
// or 5xx answer comes back as a retryable error, any other non-200
// status is permanent.
func (s *LLMService) send(ctx context.Context, path string, encoded []byte) ([]byte, error) {
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
	return fmt.Errorf("anthropic error (status %d): %s", status, body)
}
