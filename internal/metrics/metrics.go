// Package metrics holds the Prometheus collectors for analyses.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Fallback reasons.
const (
	ReasonNoCredential  = "no_credential"
	ReasonRateLimited   = "rate_limited"
	ReasonProviderError = "provider_error"
	ReasonParseError    = "parse_error"
)

var (
	once sync.Once

	// AnalysisTotal counts finished analyses by mode and verdict.
	AnalysisTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartcheck",
		Subsystem: "analysis",
		Name:      "total",
		Help:      "Total number of analyses, labeled by mode (ai|heuristic) and verdict.",
	}, []string{"mode", "verdict"})

	// FallbackTotal counts why the heuristic evaluator was used.
	FallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartcheck",
		Subsystem: "analysis",
		Name:      "fallback_total",
		Help:      "Total number of analyses served by the heuristic evaluator, labeled by reason.",
	}, []string{"reason"})

	// DurationSeconds is end-to-end analysis time including simulated latency.
	DurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cartcheck",
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "End-to-end time to produce an analysis result.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60},
	}, []string{"mode"})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalysisTotal,
			FallbackTotal,
			DurationSeconds,
		)
	})
}
