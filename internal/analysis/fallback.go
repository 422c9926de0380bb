package analysis

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/verifyyourcart/cartcheck/internal/models"
)

// Bucket is the heuristic classification of a URL.
type Bucket int

const (
	BucketDefault Bucket = iota
	BucketMajorPlatform
	BucketSuspicious
)

func (b Bucket) String() string {
	switch b {
	case BucketMajorPlatform:
		return "major_platform"
	case BucketSuspicious:
		return "suspicious"
	default:
		return "default"
	}
}

type profile struct {
	score     int
	verdict   models.Verdict
	advice    string
	breakdown models.Breakdown
}

var profiles = map[Bucket]profile{
	BucketMajorPlatform: {
		score:   94,
		verdict: models.VerdictGenuine,
		advice:  "Safe Product. This is a verified listing from a major trusted retailer.",
		breakdown: models.Breakdown{
			Reviews:     []string{"High volume of verified reviews detected.", "Review distribution follows organic patterns."},
			Sentiment:   []string{"Sentiment analysis indicates genuine buyer satisfaction.", "No bot-like repetition found."},
			Price:       []string{"Price aligns with market standards for this category.", "Discount structure is realistic."},
			Seller:      []string{"Sold by an official partner or highly-rated seller.", "Platform offers buyer protection."},
			Description: []string{"Detailed, professional product specifications.", "Includes valid warranty/return policy information."},
		},
	},
	BucketSuspicious: {
		score:   45,
		verdict: models.VerdictFake,
		advice:  "High Risk Detected. The URL contains keywords often associated with scams or temporary stores.",
		breakdown: models.Breakdown{
			Reviews:     []string{"Reviews (if any) look repetitive or fake.", "Possible copy-paste patterns."},
			Sentiment:   []string{"Description uses high-pressure sales tactics.", "Generic phrasing detected."},
			Price:       []string{"Price is suspiciously low (>60% off).", "Too good to be true."},
			Seller:      []string{"Seller identity is hidden or unverified.", "No physical address found."},
			Description: []string{"Description matches known scam templates.", "Poor grammar or spelling."},
		},
	},
	BucketDefault: {
		score:   65,
		verdict: models.VerdictSuspicious,
		advice:  "Proceed with caution. The seller is new, so double-check the return policy before spending your money.",
		breakdown: models.Breakdown{
			Reviews:     []string{"Limited number of reviews available.", "Some 5-star reviews look generic."},
			Sentiment:   []string{"Review text sounds neutral but ratings are high.", "Mixed signals detected."},
			Price:       []string{"Price is slightly lower than expected.", "Unusual discount structure."},
			Seller:      []string{"Seller profile was created recently.", "Low response rate to queries."},
			Description: []string{"Product specs are vague.", "Images might be stock photos."},
		},
	},
}

// Classify assigns a URL to exactly one bucket. Major platforms are checked
// first, so "amazon.com/free-offer" is still a major platform.
func Classify(rawURL string) Bucket {
	u := strings.ToLower(rawURL)

	if containsAny(u, MajorPlatforms) {
		return BucketMajorPlatform
	}
	if containsAny(u, ScamKeywords) || len(u) > MaxTrustedURLLength || containsAny(u, StorefrontMarkers) {
		return BucketSuspicious
	}
	return BucketDefault
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Heuristic fabricates a plausible result from the URL alone. It is used
// whenever no live model is available.
type Heuristic struct {
	minDelay time.Duration
	maxDelay time.Duration
	now      func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewHeuristic creates an evaluator that sleeps a random duration in
// [minDelay, maxDelay] before answering. Zero delays disable the sleep.
func NewHeuristic(minDelay, maxDelay time.Duration) *Heuristic {
	return &Heuristic{
		minDelay: minDelay,
		maxDelay: maxDelay,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Evaluate classifies rawURL and returns the canned result for its bucket.
// Context cancellation only shortens the simulated delay.
func (h *Heuristic) Evaluate(ctx context.Context, rawURL string) *models.AnalysisResult {
	h.sleep(ctx)
	return h.build(rawURL, Classify(rawURL))
}

func (h *Heuristic) build(rawURL string, bucket Bucket) *models.AnalysisResult {
	p := profiles[bucket]
	breakdown := copyBreakdown(p.breakdown)

	return &models.AnalysisResult{
		TrustScore: p.score,
		Verdict:    p.verdict,
		Reasons: []string{
			breakdown.Seller[0],
			breakdown.Price[0],
			breakdown.Description[0],
		},
		Advice:    p.advice,
		URL:       rawURL,
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Breakdown: breakdown,
	}
}

func (h *Heuristic) sleep(ctx context.Context) {
	d := h.delay()
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (h *Heuristic) delay() time.Duration {
	if h.maxDelay <= 0 {
		return 0
	}
	span := h.maxDelay - h.minDelay
	if span <= 0 {
		return h.minDelay
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.minDelay + time.Duration(h.rnd.Int63n(int64(span)+1))
}

// copyBreakdown keeps the shared profile tables immutable.
func copyBreakdown(b models.Breakdown) models.Breakdown {
	return models.Breakdown{
		Reviews:     append([]string(nil), b.Reviews...),
		Sentiment:   append([]string(nil), b.Sentiment...),
		Price:       append([]string(nil), b.Price...),
		Seller:      append([]string(nil), b.Seller...),
		Description: append([]string(nil), b.Description...),
	}
}
