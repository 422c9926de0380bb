// Package llm provides Ollama (local LLM) implementation of the Provider interface.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/verifyyourcart/cartcheck/internal/config"
)

// OllamaProvider implements Provider using local Ollama server.
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaProvider creates a new Ollama provider. No API key is needed.
func NewOllamaProvider(cfg *config.LLMConfig) (*OllamaProvider, error) {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	model := cfg.Model
	if model == "" {
		model = "llama3"
	}

	return &OllamaProvider{
		baseURL:    baseURL,
		model:      model,
		httpClient: newHTTPClient(cfg),
	}, nil
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// SupportsGrounding returns false.
func (p *OllamaProvider) SupportsGrounding() bool {
	return false
}

type ollamaGenerateRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	System  string `json:"system,omitempty"`
	Format  string `json:"format,omitempty"`
	Stream  bool   `json:"stream"`
	Options struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Generate runs a non-streaming generation in JSON mode.
func (p *OllamaProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	reqBody := ollamaGenerateRequest{
		Model:  p.model,
		Prompt: req.Prompt,
		System: withSchemaInstruction(req.System, req.Schema),
		Stream: false,
	}
	if req.Schema != nil {
		reqBody.Format = "json"
	}
	reqBody.Options.Temperature = req.Temperature
	reqBody.Options.NumPredict = maxTokensOr(req.MaxTokens)

	respBody, err := postJSON(ctx, p.httpClient, p.baseURL+"/api/generate", nil, reqBody)

	var result ollamaGenerateResponse
	if len(respBody) > 0 {
		if jsonErr := json.Unmarshal(respBody, &result); jsonErr != nil && err == nil {
			return nil, fmt.Errorf("failed to parse response: %w", jsonErr)
		}
	}

	if result.Error != "" {
		return nil, fmt.Errorf("Ollama error: %s", result.Error)
	}
	if err != nil {
		return nil, fmt.Errorf("Ollama request failed: %w", err)
	}

	if strings.TrimSpace(result.Response) == "" {
		return nil, fmt.Errorf("Ollama: %w", ErrNoContent)
	}

	return &GenerateResponse{Text: result.Response}, nil
}
