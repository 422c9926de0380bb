package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/verifyyourcart/cartcheck/internal/models"
)

var fencePattern = regexp.MustCompile("(?i)```json|```")

// modelReply mirrors the JSON the model is asked for. Pointer and nil-able
// fields distinguish "missing" from "empty".
type modelReply struct {
	TrustScore *float64 `json:"trust_score"`
	Verdict    string   `json:"verdict"`
	Reasons    []string `json:"reasons"`
	Advice     string   `json:"advice"`
	Breakdown  *struct {
		Reviews     []string `json:"reviews"`
		Sentiment   []string `json:"sentiment"`
		Price       []string `json:"price"`
		Seller      []string `json:"seller"`
		Description []string `json:"description"`
	} `json:"breakdown"`
}

// Defaults for fields a model reply leaves out.
const (
	DefaultReviews     = "No clear review data found."
	DefaultSentiment   = "Sentiment analysis not available."
	DefaultPrice       = "Price comparison not available."
	DefaultSeller      = "Seller history not found."
	DefaultDescription = "Description analysis not available."
	DefaultReason      = "AI completed analysis."
	DefaultAdvice      = "Proceed carefully and verify independently."
)

// extractJSON removes markdown fences and any prose around the outermost
// JSON object.
func extractJSON(raw string) string {
	text := strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		text = text[start : end+1]
	}
	return text
}

func parseReply(raw string) (*modelReply, error) {
	var reply modelReply
	if err := json.Unmarshal([]byte(extractJSON(raw)), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse model reply: %w", err)
	}
	return &reply, nil
}

// toResult fills the gaps in a model reply and clamps the score.
func (r *modelReply) toResult(url, timestamp string, sources []string) *models.AnalysisResult {
	var b models.Breakdown
	if r.Breakdown != nil {
		b = models.Breakdown{
			Reviews:     r.Breakdown.Reviews,
			Sentiment:   r.Breakdown.Sentiment,
			Price:       r.Breakdown.Price,
			Seller:      r.Breakdown.Seller,
			Description: r.Breakdown.Description,
		}
	}

	reasons := r.Reasons
	if reasons == nil {
		reasons = []string{DefaultReason}
	}
	advice := r.Advice
	if advice == "" {
		advice = DefaultAdvice
	}

	return &models.AnalysisResult{
		TrustScore: clampScore(r.TrustScore),
		Verdict:    NormalizeVerdict(r.Verdict),
		Reasons:    reasons,
		Advice:     advice,
		URL:        url,
		Timestamp:  timestamp,
		Sources:    limitSources(sources, maxSources),
		Breakdown: models.Breakdown{
			Reviews:     orDefault(b.Reviews, DefaultReviews),
			Sentiment:   orDefault(b.Sentiment, DefaultSentiment),
			Price:       orDefault(b.Price, DefaultPrice),
			Seller:      orDefault(b.Seller, DefaultSeller),
			Description: orDefault(b.Description, DefaultDescription),
		},
	}
}

func orDefault(findings []string, def string) []string {
	if findings == nil {
		return []string{def}
	}
	return findings
}

func clampScore(score *float64) int {
	if score == nil || math.IsNaN(*score) {
		return 0
	}
	s := math.Round(*score)
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return int(s)
}

const maxSources = 3

// limitSources drops blanks and duplicates, keeping the first n in order.
func limitSources(sources []string, n int) []string {
	if len(sources) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, n)
	for _, s := range sources {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == n {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
