// Package llm provides a pluggable interface for LLM providers.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/verifyyourcart/cartcheck/internal/config"
)

// ErrNoContent is returned when a provider answers without any text.
var ErrNoContent = errors.New("provider returned no content")

// GenerateRequest describes a single structured generation call.
type GenerateRequest struct {
	System      string
	Prompt      string
	Schema      *Schema // expected shape of the JSON reply
	Grounding   bool    // ask for search-grounded generation where supported
	Temperature float64
	MaxTokens   int
}

// GenerateResponse is the raw model reply plus any grounding citations.
type GenerateResponse struct {
	Text    string
	Sources []string
}

// Provider defines the interface for LLM providers.
type Provider interface {
	// Generate runs one completion. Implementations must not retry.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name.
	Name() string

	// SupportsGrounding reports whether the provider can return citation URLs.
	SupportsGrounding() bool
}

// NewProvider creates a new LLM provider based on configuration.
func NewProvider(cfg *config.LLMConfig, apiKey string) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(cfg, apiKey)
	case "openai":
		return NewOpenAIProvider(cfg, apiKey)
	case "anthropic":
		return NewAnthropicProvider(cfg, apiKey)
	case "ollama":
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// KeyRequired reports whether the named provider needs an API key.
func KeyRequired(provider string) bool {
	return provider != "ollama"
}

func maxTokensOr(n int) int {
	if n == 0 {
		return 2048
	}
	return n
}

func newHTTPClient(cfg *config.LLMConfig) *http.Client {
	// Timeout of zero means the call is awaited until it completes.
	return &http.Client{Timeout: cfg.Timeout}
}

// postJSON sends body as JSON and returns the raw response body.
// Non-2xx statuses are reported as errors carrying the body for context.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body any) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return respBody, &StatusError{Code: resp.StatusCode, Body: truncate(string(respBody), 300)}
	}
	return respBody, nil
}

// StatusError is a non-2xx reply from a provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
