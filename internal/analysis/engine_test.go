package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifyyourcart/cartcheck/internal/config"
	"github.com/verifyyourcart/cartcheck/internal/llm"
	"github.com/verifyyourcart/cartcheck/internal/metrics"
	"github.com/verifyyourcart/cartcheck/internal/models"
)

// fakeGemini answers generateContent calls with text and citation URIs.
type fakeGemini struct {
	*httptest.Server
	hits    atomic.Int32
	lastKey atomic.Value
}

func newFakeGemini(t *testing.T, status int, text string, uris ...string) *fakeGemini {
	t.Helper()
	f := &fakeGemini{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		f.lastKey.Store(r.Header.Get("x-goog-api-key"))

		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error": {"code": 500, "message": "boom", "status": "INTERNAL"}}`))
			return
		}

		chunks := make([]map[string]any, 0, len(uris))
		for _, u := range uris {
			chunks = append(chunks, map[string]any{"web": map[string]string{"uri": u}})
		}
		body, _ := json.Marshal(map[string]any{
			"candidates": []map[string]any{{
				"content":           map[string]any{"parts": []map[string]string{{"text": text}}},
				"groundingMetadata": map[string]any{"groundingChunks": chunks},
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(f.Close)
	return f
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"API_KEY", "VITE_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(name, "")
	}
}

func newTestEngine(t *testing.T, baseURL, apiKey string) *Engine {
	t.Helper()
	clearKeyEnv(t)

	cfg := config.DefaultConfig()
	cfg.LLM.BaseURL = baseURL
	cfg.LLM.APIKey = apiKey
	cfg.Fallback = config.FallbackConfig{}

	e := NewEngine(cfg)
	e.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

const genuineReply = "```json\n" + `{
	"trust_score": 96,
	"verdict": "Genuine product",
	"reasons": ["Official store", "Verified reviews", "Market price"],
	"advice": "Safe to buy.",
	"breakdown": {
		"reviews": ["Thousands of verified reviews."],
		"sentiment": ["Consistently positive."],
		"price": ["Matches MRP."],
		"seller": ["Brand-owned storefront."],
		"description": ["Full specifications."]
	}
}` + "\n```"

func TestAnalyzeWithModel(t *testing.T) {
	srv := newFakeGemini(t, http.StatusOK, genuineReply,
		"https://a.example", "https://a.example", "https://b.example", "https://c.example", "https://d.example")
	e := newTestEngine(t, srv.URL, "server-key")

	r := e.Analyze(context.Background(), "https://www.amazon.in/product/123", "")

	assert.EqualValues(t, 1, srv.hits.Load())
	assert.Equal(t, "server-key", srv.lastKey.Load())
	assert.Equal(t, 96, r.TrustScore)
	assert.Equal(t, models.VerdictGenuine, r.Verdict)
	assert.Equal(t, "Safe to buy.", r.Advice)
	assert.Equal(t, []string{"Brand-owned storefront."}, r.Breakdown.Seller)
	assert.Equal(t, []string{"https://a.example", "https://b.example", "https://c.example"}, r.Sources)
	assert.Equal(t, "https://www.amazon.in/product/123", r.URL)
	assert.Equal(t, "2024-05-01T12:00:00Z", r.Timestamp)
}

func TestAnalyzeOverrideKeyWins(t *testing.T) {
	srv := newFakeGemini(t, http.StatusOK, genuineReply)
	e := newTestEngine(t, srv.URL, "server-key")

	e.Analyze(context.Background(), "https://amazon.com/x", "user-key")
	assert.Equal(t, "user-key", srv.lastKey.Load())
}

func TestAnalyzeOverrideEnablesModelInDemoMode(t *testing.T) {
	srv := newFakeGemini(t, http.StatusOK, `{"trust_score": 20, "verdict": "fake"}`)
	e := newTestEngine(t, srv.URL, "")
	require.False(t, e.HasCredential())

	r := e.Analyze(context.Background(), "https://amazon.com/x", "user-key")
	assert.EqualValues(t, 1, srv.hits.Load())
	assert.Equal(t, 20, r.TrustScore)
	assert.Equal(t, models.VerdictFake, r.Verdict)
}

func TestAnalyzeWithoutCredentialUsesHeuristic(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "placeholder", key: config.PlaceholderAPIKey},
		{name: "uninterpolated", key: "${GEMINI_API_KEY}"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeGemini(t, http.StatusOK, genuineReply)
			e := newTestEngine(t, srv.URL, tt.key)

			assert.False(t, e.HasCredential())
			r := e.Analyze(context.Background(), "https://www.amazon.in/product/123", "")

			assert.Zero(t, srv.hits.Load())
			assert.Equal(t, 94, r.TrustScore)
			assert.Equal(t, models.VerdictGenuine, r.Verdict)
			assert.Empty(t, r.Sources)
		})
	}
}

func TestAnalyzeFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		text   string
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "garbage reply", status: http.StatusOK, text: "I cannot help with that."},
		{name: "empty reply", status: http.StatusOK, text: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeGemini(t, tt.status, tt.text)
			e := newTestEngine(t, srv.URL, "server-key")

			r := e.Analyze(context.Background(), "https://cheap-deals.xyz/win-iphone-free", "")

			assert.EqualValues(t, 1, srv.hits.Load(), "no retries")
			assert.Equal(t, 45, r.TrustScore)
			assert.Equal(t, models.VerdictFake, r.Verdict)
		})
	}
}

func TestAnalyzeProviderNone(t *testing.T) {
	clearKeyEnv(t)
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = "none"
	cfg.LLM.APIKey = "real-looking-key"
	cfg.Fallback = config.FallbackConfig{}

	e := NewEngine(cfg)
	assert.False(t, e.HasCredential())
	assert.Equal(t, 65, e.Analyze(context.Background(), "https://randomstore.co/product/123", "user-key").TrustScore)
}

func TestAnalyzePacingFallsBackWhenExhausted(t *testing.T) {
	srv := newFakeGemini(t, http.StatusOK, genuineReply)
	clearKeyEnv(t)
	cfg := config.DefaultConfig()
	cfg.LLM.BaseURL = srv.URL
	cfg.LLM.APIKey = "server-key"
	cfg.LLM.RequestsPerMinute = 1
	cfg.Fallback = config.FallbackConfig{}
	e := NewEngine(cfg)

	first := e.Analyze(context.Background(), "https://randomstore.co/product/123", "")
	second := e.Analyze(context.Background(), "https://randomstore.co/product/123", "")

	assert.EqualValues(t, 1, srv.hits.Load())
	assert.Equal(t, 96, first.TrustScore)
	assert.Equal(t, 65, second.TrustScore)
}

func TestAnalyzeProviderFactoryError(t *testing.T) {
	e := newTestEngine(t, "", "server-key")
	e.newProvider = func(*config.LLMConfig, string) (llm.Provider, error) {
		return nil, assert.AnError
	}

	r := e.Analyze(context.Background(), "https://www.amazon.in/product/123", "")
	assert.Equal(t, 94, r.TrustScore)
}

func TestAnalyzeKeylessProvider(t *testing.T) {
	e := newTestEngine(t, "", "")
	e.llmCfg.Provider = "ollama"
	assert.True(t, e.HasCredential())
	assert.Equal(t, "ollama", e.ProviderName())
}

func TestAnalyzeCountsFallbackReason(t *testing.T) {
	srv := newFakeGemini(t, http.StatusOK, "not json at all")
	e := newTestEngine(t, srv.URL, "server-key")

	parseFailures := metrics.FallbackTotal.WithLabelValues(metrics.ReasonParseError)
	before := testutil.ToFloat64(parseFailures)

	e.Analyze(context.Background(), "https://randomstore.co/product/123", "")
	assert.Equal(t, before+1, testutil.ToFloat64(parseFailures))
}

func TestEndToEndWithoutCredential(t *testing.T) {
	tests := []struct {
		input       string
		wantScore   int
		wantVerdict models.Verdict
	}{
		{input: "amazon.com/dp/B000", wantScore: 94, wantVerdict: models.VerdictGenuine},
		{input: "totally-free-win-prize.xyz/deal", wantScore: 45, wantVerdict: models.VerdictFake},
		{input: "myrandomstore.net/item123", wantScore: 65, wantVerdict: models.VerdictSuspicious},
	}

	e := newTestEngine(t, "", "")
	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			url, err := NormalizeURL(tt.input)
			require.NoError(t, err)

			r := e.Analyze(context.Background(), url, "")
			assert.Equal(t, tt.wantScore, r.TrustScore)
			assert.Equal(t, tt.wantVerdict, r.Verdict)
			assert.Equal(t, "https://"+tt.input, r.URL)
		})
	}
}

func TestFencedSafeReplyMapsToGenuine(t *testing.T) {
	srv := newFakeGemini(t, http.StatusOK, "```json\n{\"trust_score\":77,\"verdict\":\"Likely Safe\"}\n```")
	e := newTestEngine(t, srv.URL, "server-key")

	r := e.Analyze(context.Background(), "https://myrandomstore.net/item123", "")
	assert.Equal(t, 77, r.TrustScore)
	assert.Equal(t, models.VerdictGenuine, r.Verdict)
	assert.Equal(t, []string{DefaultReason}, r.Reasons)
}
