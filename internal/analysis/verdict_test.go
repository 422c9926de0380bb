package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verifyyourcart/cartcheck/internal/models"
)

func TestNormalizeVerdict(t *testing.T) {
	tests := []struct {
		raw  string
		want models.Verdict
	}{
		{raw: "Genuine", want: models.VerdictGenuine},
		{raw: "likely GENUINE product", want: models.VerdictGenuine},
		{raw: "Safe to buy", want: models.VerdictGenuine},
		{raw: "Fake", want: models.VerdictFake},
		{raw: "probably fake listing", want: models.VerdictFake},
		{raw: "not fake, genuine", want: models.VerdictGenuine},
		{raw: "Suspicious", want: models.VerdictSuspicious},
		{raw: "unclear", want: models.VerdictSuspicious},
		{raw: "", want: models.VerdictSuspicious},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			got := NormalizeVerdict(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeVerdict(string(got)), "must be idempotent")
		})
	}
}
