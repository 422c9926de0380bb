package analysis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifyyourcart/cartcheck/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Bucket
	}{
		{name: "major platform", url: "https://amazon.in/dp/B0CX", want: BucketMajorPlatform},
		{name: "platform wins over keyword", url: "https://www.amazon.com/free-offer-deal", want: BucketMajorPlatform},
		{name: "case insensitive", url: "https://WWW.FLIPKART.COM/item", want: BucketMajorPlatform},
		{name: "scam keyword", url: "https://cheap-sneakers.shop/p", want: BucketSuspicious},
		{name: "storefront builder", url: "https://mystore.myshopify.com/p", want: BucketSuspicious},
		{name: "long url", url: "https://unknown-shop.co/" + strings.Repeat("x", 80), want: BucketSuspicious},
		{name: "default", url: "https://randomstore.co/product/123", want: BucketDefault},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.url))
		})
	}
}

func TestClassifyLengthBoundary(t *testing.T) {
	base := "https://q.co/"
	exact := base + strings.Repeat("q", MaxTrustedURLLength-len(base))
	require.Len(t, exact, MaxTrustedURLLength)

	assert.Equal(t, BucketDefault, Classify(exact))
	assert.Equal(t, BucketSuspicious, Classify(exact+"q"))
}

func TestHeuristicEvaluate(t *testing.T) {
	tests := []struct {
		url         string
		wantScore   int
		wantVerdict models.Verdict
	}{
		{url: "https://www.amazon.in/product/123", wantScore: 94, wantVerdict: models.VerdictGenuine},
		{url: "https://cheap-deals.xyz/win-iphone-free", wantScore: 45, wantVerdict: models.VerdictFake},
		{url: "https://randomstore.co/product/123", wantScore: 65, wantVerdict: models.VerdictSuspicious},
	}

	h := NewHeuristic(0, 0)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.url, func(t *testing.T) {
			r := h.Evaluate(context.Background(), tt.url)

			assert.Equal(t, tt.wantScore, r.TrustScore)
			assert.Equal(t, tt.wantVerdict, r.Verdict)
			assert.Equal(t, tt.url, r.URL)
			assert.NotEmpty(t, r.Advice)
			assert.Empty(t, r.Sources)
			assert.Equal(t, []string{r.Breakdown.Seller[0], r.Breakdown.Price[0], r.Breakdown.Description[0]}, r.Reasons)
			assert.Len(t, r.Breakdown.Categories(), 5)
			for _, c := range r.Breakdown.Categories() {
				assert.Len(t, c.Findings, 2, c.Key)
			}

			_, err := time.Parse(time.RFC3339, r.Timestamp)
			assert.NoError(t, err)
		})
	}
}

func TestHeuristicResultsAreIndependent(t *testing.T) {
	h := NewHeuristic(0, 0)
	first := h.Evaluate(context.Background(), "https://amazon.com/a")
	first.Breakdown.Seller[0] = "mutated"

	second := h.Evaluate(context.Background(), "https://amazon.com/a")
	assert.Equal(t, "Sold by an official partner or highly-rated seller.", second.Breakdown.Seller[0])
}

func TestHeuristicDelay(t *testing.T) {
	h := NewHeuristic(20*time.Millisecond, 40*time.Millisecond)
	for i := 0; i < 50; i++ {
		d := h.delay()
		assert.GreaterOrEqual(t, d, 20*time.Millisecond)
		assert.LessOrEqual(t, d, 40*time.Millisecond)
	}

	fixed := NewHeuristic(10*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, fixed.delay())

	assert.Zero(t, NewHeuristic(0, 0).delay())
}

func TestHeuristicCancelledContextStillReturns(t *testing.T) {
	h := NewHeuristic(time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	r := h.Evaluate(ctx, "https://amazon.com/x")
	assert.Less(t, time.Since(start), time.Second)
	require.NotNil(t, r)
	assert.Equal(t, 94, r.TrustScore)
}

func TestEveryPlatformIsGenuine(t *testing.T) {
	h := NewHeuristic(0, 0)
	for _, p := range MajorPlatforms {
		for _, kw := range append([]string{""}, ScamKeywords...) {
			r := h.Evaluate(context.Background(), "https://"+p+".example/"+kw)
			assert.Equal(t, models.VerdictGenuine, r.Verdict, p+"/"+kw)
			assert.GreaterOrEqual(t, r.TrustScore, 90)
		}
	}
}

func TestEveryScamKeywordIsFake(t *testing.T) {
	h := NewHeuristic(0, 0)
	for _, kw := range ScamKeywords {
		r := h.Evaluate(context.Background(), "https://shop.example/"+kw)
		assert.Equal(t, models.VerdictFake, r.Verdict, kw)
		assert.Less(t, r.TrustScore, 50)
	}
}
