// Package models defines the core data structures used throughout the application.
package models

import (
	"time"
)

// Verdict is the categorical outcome of an analysis.
type Verdict string

const (
	VerdictGenuine    Verdict = "Genuine"
	VerdictSuspicious Verdict = "Suspicious"
	VerdictFake       Verdict = "Fake"
)

// Mode names the path that produced a result.
type Mode string

const (
	ModeAI        Mode = "ai"
	ModeHeuristic Mode = "heuristic"
)

// Breakdown holds per-category findings shown to the user.
type Breakdown struct {
	Reviews     []string `json:"reviews"`
	Sentiment   []string `json:"sentiment"`
	Price       []string `json:"price"`
	Seller      []string `json:"seller"`
	Description []string `json:"description"`
}

// Category is one labelled breakdown section.
type Category struct {
	Key      string
	Label    string
	Findings []string
}

// Categories returns the non-empty categories in display order.
// Empty categories are omitted so they are never rendered.
func (b Breakdown) Categories() []Category {
	all := []Category{
		{Key: "reviews", Label: "Reviews & Ratings", Findings: b.Reviews},
		{Key: "sentiment", Label: "Review Sentiment", Findings: b.Sentiment},
		{Key: "price", Label: "Price Analysis", Findings: b.Price},
		{Key: "seller", Label: "Seller Trust", Findings: b.Seller},
		{Key: "description", Label: "Product Description", Findings: b.Description},
	}

	out := make([]Category, 0, len(all))
	for _, c := range all {
		if len(c.Findings) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// AnalysisResult is the outcome of analyzing one product URL.
// It is built once per request and never modified afterwards.
type AnalysisResult struct {
	TrustScore int       `json:"trust_score"`
	Verdict    Verdict   `json:"verdict"`
	Reasons    []string  `json:"reasons"`
	Advice     string    `json:"advice"`
	URL        string    `json:"url"`
	Timestamp  string    `json:"timestamp"`
	Sources    []string  `json:"sources,omitempty"`
	Breakdown  Breakdown `json:"breakdown"`
}

// AnalyzeRequest is the request body for the analyze endpoint.
type AnalyzeRequest struct {
	URL    string `json:"url"`
	APIKey string `json:"api_key,omitempty"` // Optional per-request LLM credential
}

// AuditLog represents an API request audit entry.
type AuditLog struct {
	ID           string    `json:"id"`
	RequestID    string    `json:"request_id"`
	RemoteAddr   string    `json:"remote_addr"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestSize  int64     `json:"request_size"`
	ResponseCode int       `json:"response_code"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}
