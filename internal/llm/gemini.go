// Package llm provides Google Gemini implementation of the Provider interface.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/verifyyourcart/cartcheck/internal/config"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var geminiHarmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// GeminiProvider implements Provider using Google Gemini API.
type GeminiProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(cfg *config.LLMConfig, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-pro"
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	return &GeminiProvider{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: newHTTPClient(cfg),
	}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// SupportsGrounding returns true; Gemini can ground on Google Search.
func (p *GeminiProvider) SupportsGrounding() bool {
	return true
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Tools             []geminiTool            `json:"tools,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
	SafetySettings    []geminiSafetySetting   `json:"safetySettings,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiGenerationConfig struct {
	Temperature      float64       `json:"temperature,omitempty"`
	MaxOutputTokens  int           `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
}

// geminiSchema is the OpenAPI-flavoured schema Gemini expects (upper-case types).
type geminiSchema struct {
	Type        string                   `json:"type"`
	Description string                   `json:"description,omitempty"`
	Properties  map[string]*geminiSchema `json:"properties,omitempty"`
	Items       *geminiSchema            `json:"items,omitempty"`
	Required    []string                 `json:"required,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason      string `json:"finishReason"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

func toGeminiSchema(s *Schema) *geminiSchema {
	if s == nil {
		return nil
	}
	out := &geminiSchema{
		Type:        strings.ToUpper(s.Type),
		Description: s.Description,
		Items:       toGeminiSchema(s.Items),
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*geminiSchema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	return out
}

// Generate calls generateContent once and collects grounding citations.
func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{{Text: req.Prompt}},
				Role:  "user",
			},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: maxTokensOr(req.MaxTokens),
		},
	}

	if req.System != "" {
		reqBody.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.System}},
		}
	}

	if req.Schema != nil {
		reqBody.GenerationConfig.ResponseMimeType = "application/json"
		reqBody.GenerationConfig.ResponseSchema = toGeminiSchema(req.Schema)
	}

	if req.Grounding {
		reqBody.Tools = []geminiTool{{GoogleSearch: &struct{}{}}}
	}

	for _, category := range geminiHarmCategories {
		reqBody.SafetySettings = append(reqBody.SafetySettings, geminiSafetySetting{
			Category:  category,
			Threshold: "BLOCK_ONLY_HIGH",
		})
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.model)
	respBody, err := postJSON(ctx, p.httpClient, url, map[string]string{"x-goog-api-key": p.apiKey}, reqBody)

	var result geminiResponse
	if len(respBody) > 0 {
		if jsonErr := json.Unmarshal(respBody, &result); jsonErr != nil && err == nil {
			return nil, fmt.Errorf("failed to parse response: %w", jsonErr)
		}
	}

	if result.Error != nil {
		return nil, fmt.Errorf("Gemini error: %s (code %d)", result.Error.Message, result.Error.Code)
	}
	if err != nil {
		return nil, fmt.Errorf("Gemini request failed: %w", err)
	}

	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("Gemini: %w", ErrNoContent)
	}

	candidate := result.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, fmt.Errorf("Gemini (finish reason %q): %w", candidate.FinishReason, ErrNoContent)
	}

	out := &GenerateResponse{Text: text.String()}
	if candidate.GroundingMetadata != nil {
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				out.Sources = append(out.Sources, chunk.Web.URI)
			}
		}
	}
	return out, nil
}
