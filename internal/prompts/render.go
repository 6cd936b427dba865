package prompts

import (
	"fmt"
	"strings"

	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

// FactMatrix renders the normalized fact set as the serialized block the
// conflict and analysis prompts consume: one indexed entry per fact.
func FactMatrix(facts []model.Fact) string {
	var b strings.Builder
	b.WriteString("\n\nFact Matrix:\n")
	for i, f := range facts {
		fmt.Fprintf(&b, "\nFact %d:\n", i+1)
		fmt.Fprintf(&b, "  Source Text: %s\n", orNA(f.SourceText))
		fmt.Fprintf(&b, "  Extracted Fact: %s\n", orNA(f.ExtractedFact))
		fmt.Fprintf(&b, "  Category: %s\n", orNA(string(f.Category)))
		fmt.Fprintf(&b, "  Source: %s\n", orNA(string(f.Source)))
		fmt.Fprintf(&b, "  Confidence: %g\n", f.Confidence)
		if f.NormalizedValue != "" {
			fmt.Fprintf(&b, "  Normalized Value: %s\n", f.NormalizedValue)
		}
		if f.IsImplied {
			fmt.Fprintf(&b, "  Is Implied: true\n")
		}
	}
	return b.String()
}

// FactList renders facts as a flat bullet list for the narrative prompts
// (timeline, recommendation, rationale, escalation).
func FactList(facts []model.Fact) string {
	var b strings.Builder
	for _, f := range facts {
		fmt.Fprintf(&b, "- %s\n", orNA(f.ExtractedFact))
	}
	return b.String()
}

// SignalList renders liability signals as a flat bullet list
func SignalList(signals []model.LiabilitySignal) string {
	var b strings.Builder
	for _, s := range signals {
		fmt.Fprintf(&b, "- %s: %s\n", orNA(s.SignalType), orNA(s.ImpactOnLiability))
	}
	return b.String()
}

// FileListing renders the uploaded file inventory for the evidence
// completeness check.
func FileListing(docs []model.DocumentRecord) string {
	var b strings.Builder
	b.WriteString("\n\nUploaded Files:\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "\n%s (%s)\n", d.Name(), d.Type)
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
