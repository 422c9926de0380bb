package analysis

import (
	"fmt"
	"strings"

	"github.com/verifyyourcart/cartcheck/internal/llm"
)

const systemPrompt = `You are an expert Fake Online Product Detector AI.
Your goal: protect users from scams while NOT falsely accusing trusted brands.`

func buildPrompt(url, domain string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this product URL: %s\n", url)
	if domain != "" {
		fmt.Fprintf(&b, "Registrable domain: %s\n", domain)
	}

	b.WriteString("\nSTRICT RULES:\n")
	fmt.Fprintf(&b, "- If the domain is one of these trusted platforms:\n  %s\n", strings.Join(TrustedDomains, ", "))
	b.WriteString("  then trust_score MUST be 90-99 unless clear red flags exist.\n")
	fmt.Fprintf(&b, "- If the domain looks suspicious (typosquatting, uncommon TLD like %s, fake-looking subdomains):\n",
		strings.Join(SuspiciousTLDs, ", "))
	b.WriteString("  trust_score MUST be 0-40.\n")
	b.WriteString("- Always provide a detailed breakdown:\n")
	b.WriteString("  Reviews & Ratings\n  Review Sentiment\n  Price Analysis\n  Seller Trust\n  Product Description\n")
	b.WriteString("- verdict is one of Genuine, Suspicious or Fake.\n")
	b.WriteString("\nReturn STRICT JSON only. No extra explanation outside JSON.\n")

	return b.String()
}

// responseSchema is the shape the model must answer with.
func responseSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"trust_score": {Type: llm.TypeNumber, Description: "0-100, higher is more trustworthy"},
			"verdict":     {Type: llm.TypeString, Description: "Genuine, Suspicious or Fake"},
			"breakdown": {
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"reviews":     llm.StringArray(),
					"sentiment":   llm.StringArray(),
					"price":       llm.StringArray(),
					"seller":      llm.StringArray(),
					"description": llm.StringArray(),
				},
			},
			"reasons": llm.StringArray(),
			"advice":  {Type: llm.TypeString},
		},
	}
}
