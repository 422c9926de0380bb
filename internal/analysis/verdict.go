package analysis

import (
	"strings"

	"github.com/verifyyourcart/cartcheck/internal/models"
)

// NormalizeVerdict maps free-text model output onto a canonical verdict.
// "genuine" or "safe" wins over "fake"; anything else is Suspicious.
func NormalizeVerdict(raw string) models.Verdict {
	v := strings.ToLower(raw)
	switch {
	case strings.Contains(v, "genuine"), strings.Contains(v, "safe"):
		return models.VerdictGenuine
	case strings.Contains(v, "fake"):
		return models.VerdictFake
	default:
		return models.VerdictSuspicious
	}
}
