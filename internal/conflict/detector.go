// Package conflict detects contradictions across the normalized fact set
// via one structured model round-trip, then cross-validates the model's
// claimed evidence against the real fact matrix.
package conflict

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kavya5jan-prog/ema-claims/internal/llm"
	"github.com/kavya5jan-prog/ema-claims/internal/model"
	"github.com/kavya5jan-prog/ema-claims/internal/prompts"
)

const (
	snippetLimit    = 200 // max characters per backfilled snippet
	maxBackfill     = 3   // max snippets backfilled per conflicting value
	defaultSeverity = model.SeverityMedium
)

// Detector runs conflict detection over a normalized fact set
type Detector struct {
	gw        llm.Gateway
	maxTokens int
	timeout   time.Duration
	log       *zap.Logger
}

// New creates a Detector
func New(gw llm.Gateway, cfg model.LLMConfig, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{
		gw:        gw,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		log:       log,
	}
}

// Detect returns conflicts found across the facts. Fewer than two facts
// cannot conflict, so the gateway is not called at all in that case.
//
// Detection never fails the caller: on any gateway or parse failure it
// returns an empty list and logs the degradation, because facts without
// conflict annotations are still materially useful.
func (d *Detector) Detect(ctx context.Context, facts []model.Fact) []model.Conflict {
	if len(facts) < 2 {
		return []model.Conflict{}
	}

	prompt := prompts.ConflictDetection + prompts.FactMatrix(facts)

	raw, err := d.gw.Invoke(ctx, llm.Request{
		Text:      prompt,
		MaxTokens: d.maxTokens,
		JSONMode:  true,
		Timeout:   d.timeout,
	})
	if err != nil {
		d.log.Warn("conflict detection degraded: gateway call failed", zap.Error(err))
		return []model.Conflict{}
	}

	var set model.ConflictSet
	if err := llm.ParseJSON(raw, &set); err != nil {
		d.log.Warn("conflict detection degraded: unparsable response", zap.Error(err))
		return []model.Conflict{}
	}

	conflicts := make([]model.Conflict, 0, len(set.Conflicts))
	for _, c := range set.Conflicts {
		if c.Severity == "" {
			c.Severity = defaultSeverity
		}
		c.ValueDetails = groundValueDetails(c.ValueDetails, facts)
		conflicts = append(conflicts, c)
	}
	return conflicts
}

// groundValueDetails verifies each value detail's evidence. Snippets the
// model supplied are kept verbatim; missing ones are backfilled from real
// source_text values of facts matching the claimed source and value, so no
// conflict ships with synthesized evidence.
func groundValueDetails(details []model.ValueDetail, facts []model.Fact) []model.ValueDetail {
	grounded := make([]model.ValueDetail, 0, len(details))
	for _, detail := range details {
		if len(detail.SourceSnippets) == 0 {
			detail.SourceSnippets = backfillSnippets(detail, facts)
		}
		grounded = append(grounded, detail)
	}
	return grounded
}

func backfillSnippets(detail model.ValueDetail, facts []model.Fact) []string {
	claimed := make(map[model.SourceType]bool, len(detail.Sources))
	for _, s := range detail.Sources {
		claimed[s] = true
	}

	snippets := make([]string, 0, maxBackfill)
	seen := make(map[string]bool)

	for _, fact := range facts {
		if len(snippets) >= maxBackfill {
			break
		}
		if !claimed[fact.Source] {
			continue
		}
		if !valueMatches(detail.Value, factValue(fact)) {
			continue
		}
		snippet := fact.SourceText
		if snippet == "" {
			continue
		}
		if len(snippet) > snippetLimit {
			snippet = snippet[:snippetLimit]
		}
		if seen[snippet] {
			continue
		}
		seen[snippet] = true
		snippets = append(snippets, snippet)
	}
	return snippets
}

func factValue(f model.Fact) string {
	if f.NormalizedValue != "" {
		return f.NormalizedValue
	}
	return f.ExtractedFact
}

// valueMatches is a case-insensitive substring check in either direction
func valueMatches(claimed, actual string) bool {
	if claimed == "" || actual == "" {
		return false
	}
	a := strings.ToLower(claimed)
	b := strings.ToLower(actual)
	return strings.Contains(a, b) || strings.Contains(b, a)
}
