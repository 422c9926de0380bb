// Package analysis turns a product URL into a trust assessment.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/verifyyourcart/cartcheck/internal/config"
	"github.com/verifyyourcart/cartcheck/internal/llm"
	"github.com/verifyyourcart/cartcheck/internal/metrics"
	"github.com/verifyyourcart/cartcheck/internal/models"
)

// ProviderFactory builds an LLM provider for a credential.
type ProviderFactory func(cfg *config.LLMConfig, apiKey string) (llm.Provider, error)

// Engine runs analyses. It is safe for concurrent use.
type Engine struct {
	llmCfg      config.LLMConfig
	apiKey      string
	limiter     *rate.Limiter
	newProvider ProviderFactory
	heuristic   *Heuristic
	now         func() time.Time
}

// NewEngine creates an engine from configuration. The server credential is
// resolved once here; a missing one puts the engine in demo mode.
func NewEngine(cfg *config.Config) *Engine {
	e := &Engine{
		llmCfg:      cfg.LLM,
		apiKey:      cfg.LLM.ResolveAPIKey(),
		newProvider: llm.NewProvider,
		heuristic:   NewHeuristic(cfg.Fallback.MinDelay, cfg.Fallback.MaxDelay),
		now:         time.Now,
	}

	if rpm := cfg.LLM.RequestsPerMinute; rpm > 0 {
		e.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
	}

	if !e.HasCredential() {
		log.Warn().Str("provider", e.ProviderName()).Msg("No usable API key configured - running in demo mode")
	}
	return e
}

// ProviderName returns the configured provider name.
func (e *Engine) ProviderName() string {
	if e.llmCfg.Provider == "" {
		return "none"
	}
	return e.llmCfg.Provider
}

// HasCredential reports whether analyses without an override can reach a model.
func (e *Engine) HasCredential() bool {
	_, ok := e.credential("")
	return ok
}

func (e *Engine) credential(override string) (string, bool) {
	provider := e.llmCfg.Provider
	if provider == "" || provider == "none" {
		return "", false
	}
	if !llm.KeyRequired(provider) {
		return "", true
	}
	if config.UsableKey(override) {
		return strings.TrimSpace(override), true
	}
	if config.UsableKey(e.apiKey) {
		return e.apiKey, true
	}
	return "", false
}

// Analyze produces a result for an already normalized URL. It never fails:
// any problem with the model path yields the heuristic result instead.
func (e *Engine) Analyze(ctx context.Context, url, apiKeyOverride string) *models.AnalysisResult {
	start := time.Now()
	domain := RegistrableDomain(url)

	result, mode := e.analyze(ctx, url, domain, apiKeyOverride)

	elapsed := time.Since(start)
	metrics.AnalysisTotal.WithLabelValues(string(mode), string(result.Verdict)).Inc()
	metrics.DurationSeconds.WithLabelValues(string(mode)).Observe(elapsed.Seconds())

	log.Info().
		Str("mode", string(mode)).
		Str("domain", domain).
		Str("verdict", string(result.Verdict)).
		Int("score", result.TrustScore).
		Int64("duration_ms", elapsed.Milliseconds()).
		Msg("Analysis complete")

	return result
}

func (e *Engine) analyze(ctx context.Context, url, domain, override string) (*models.AnalysisResult, models.Mode) {
	key, ok := e.credential(override)
	if !ok {
		return e.fallback(ctx, url, metrics.ReasonNoCredential, nil), models.ModeHeuristic
	}

	if e.limiter != nil && !e.limiter.Allow() {
		return e.fallback(ctx, url, metrics.ReasonRateLimited, nil), models.ModeHeuristic
	}

	result, err := e.generate(ctx, url, domain, key)
	if err != nil {
		reason := metrics.ReasonProviderError
		var perr *parseError
		if errors.As(err, &perr) {
			reason = metrics.ReasonParseError
		}
		return e.fallback(ctx, url, reason, err), models.ModeHeuristic
	}
	return result, models.ModeAI
}

type parseError struct{ err error }

func (p *parseError) Error() string { return p.err.Error() }
func (p *parseError) Unwrap() error { return p.err }

func (e *Engine) generate(ctx context.Context, url, domain, key string) (*models.AnalysisResult, error) {
	provider, err := e.newProvider(&e.llmCfg, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	resp, err := provider.Generate(ctx, llm.GenerateRequest{
		System:    systemPrompt,
		Prompt:    buildPrompt(url, domain),
		Schema:    responseSchema(),
		Grounding: e.llmCfg.Grounding && provider.SupportsGrounding(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s generate: %w", provider.Name(), err)
	}

	reply, err := parseReply(resp.Text)
	if err != nil {
		return nil, &parseError{err: err}
	}

	return reply.toResult(url, e.timestamp(), resp.Sources), nil
}

func (e *Engine) fallback(ctx context.Context, url, reason string, err error) *models.AnalysisResult {
	metrics.FallbackTotal.WithLabelValues(reason).Inc()

	ev := log.Warn().Str("reason", reason).Str("provider", e.ProviderName())
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("Using heuristic analysis")

	return e.heuristic.Evaluate(ctx, url)
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}
