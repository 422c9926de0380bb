// Package llm provides Anthropic Claude implementation of the Provider interface.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/verifyyourcart/cartcheck/internal/config"
)

const defaultAnthropicBaseURL = "https://api.anthropic.com"

// AnthropicProvider implements Provider using Anthropic Claude API.
type AnthropicProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg *config.LLMConfig, apiKey string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "claude-3-haiku-20240307"
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}

	return &AnthropicProvider{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: newHTTPClient(cfg),
	}, nil
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// SupportsGrounding returns false.
func (p *AnthropicProvider) SupportsGrounding() bool {
	return false
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate calls the Messages API once. The schema travels in the system prompt.
func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	reqBody := anthropicRequest{
		Model:       p.model,
		MaxTokens:   maxTokensOr(req.MaxTokens),
		System:      withSchemaInstruction(req.System, req.Schema),
		Temperature: req.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
	}

	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	}
	respBody, err := postJSON(ctx, p.httpClient, p.baseURL+"/v1/messages", headers, reqBody)

	var result anthropicResponse
	if len(respBody) > 0 {
		if jsonErr := json.Unmarshal(respBody, &result); jsonErr != nil && err == nil {
			return nil, fmt.Errorf("failed to parse response: %w", jsonErr)
		}
	}

	if result.Error != nil {
		return nil, fmt.Errorf("Anthropic error: %s", result.Error.Message)
	}
	if err != nil {
		return nil, fmt.Errorf("Anthropic request failed: %w", err)
	}

	var text strings.Builder
	for _, block := range result.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("Anthropic: %w", ErrNoContent)
	}

	return &GenerateResponse{Text: text.String()}, nil
}
