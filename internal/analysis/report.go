package analysis

import (
	"fmt"
	"io"

	"github.com/verifyyourcart/cartcheck/internal/models"
)

// WriteReport renders a result as plain text. Empty categories are skipped.
func WriteReport(w io.Writer, r *models.AnalysisResult) error {
	pw := &reportWriter{w: w}

	pw.printf("URL:         %s\n", r.URL)
	pw.printf("Trust score: %d/100\n", r.TrustScore)
	pw.printf("Verdict:     %s\n", r.Verdict)
	pw.printf("Advice:      %s\n", r.Advice)

	if len(r.Reasons) > 0 {
		pw.printf("\nKey reasons:\n")
		for _, reason := range r.Reasons {
			pw.printf("  - %s\n", reason)
		}
	}

	for _, c := range r.Breakdown.Categories() {
		pw.printf("\n%s:\n", c.Label)
		for _, f := range c.Findings {
			pw.printf("  - %s\n", f)
		}
	}

	if len(r.Sources) > 0 {
		pw.printf("\nSources:\n")
		for _, s := range r.Sources {
			pw.printf("  %s\n", s)
		}
	}
	return pw.err
}

// reportWriter remembers the first write error.
type reportWriter struct {
	w   io.Writer
	err error
}

func (p *reportWriter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
