package conflict

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kavya5jan-prog/ema-claims/internal/llm"
	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

type stubGateway struct {
	response string
	err      error
	calls    int
}

func (s *stubGateway) Invoke(ctx context.Context, req llm.Request) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func headingFacts() []model.Fact {
	return []model.Fact{
		{
			SourceText:      "I was heading north on Main Street",
			ExtractedFact:   "Claimant traveling north",
			Category:        model.CategoryLocation,
			Confidence:      0.9,
			Source:          model.SourceClaimant,
			NormalizedValue: "N",
		},
		{
			SourceText:      "the other car was going south",
			ExtractedFact:   "Other vehicle traveling south",
			Category:        model.CategoryLocation,
			Confidence:      0.85,
			Source:          model.SourceOtherDriver,
			NormalizedValue: "S",
		},
	}
}

func TestDetectFewerThanTwoFacts(t *testing.T) {
	gw := &stubGateway{response: `{"conflicts":[]}`}
	d := New(gw, model.LLMConfig{}, nil)

	for _, facts := range [][]model.Fact{nil, {headingFacts()[0]}} {
		got := d.Detect(context.Background(), facts)
		if got == nil || len(got) != 0 {
			t.Errorf("facts=%d: got %v, want empty non-nil list", len(facts), got)
		}
	}
	if gw.calls != 0 {
		t.Errorf("gateway called %d times for sub-minimum fact sets", gw.calls)
	}
}

func TestDetectParsesConflicts(t *testing.T) {
	gw := &stubGateway{response: `{"conflicts":[{
		"fact_description":"Claimant direction of travel",
		"sources":["claimant","police"],
		"conflicting_values":["N","S"],
		"conflict_type":"direct_contradiction",
		"severity":"high",
		"explanation":"Statements disagree on heading.",
		"recommended_version":"N",
		"evidence":"police report vs claimant statement",
		"value_details":[{"value":"N","sources":["claimant"],"source_snippets":["I was heading north on Main Street"]}]
	}]}`}
	d := New(gw, model.LLMConfig{}, nil)

	got := d.Detect(context.Background(), headingFacts())
	if len(got) != 1 {
		t.Fatalf("conflicts = %d, want 1", len(got))
	}
	c := got[0]
	if c.Severity != model.SeverityHigh {
		t.Errorf("severity = %q", c.Severity)
	}
	if len(c.ValueDetails) != 1 || c.ValueDetails[0].SourceSnippets[0] != "I was heading north on Main Street" {
		t.Errorf("model-supplied snippets must be kept verbatim: %+v", c.ValueDetails)
	}
}

func TestDetectDefaultsSeverity(t *testing.T) {
	gw := &stubGateway{response: `{"conflicts":[{"fact_description":"x","conflicting_values":["a","b"]}]}`}
	d := New(gw, model.LLMConfig{}, nil)

	got := d.Detect(context.Background(), headingFacts())
	if len(got) != 1 || got[0].Severity != model.SeverityMedium {
		t.Errorf("got %+v, want medium severity default", got)
	}
}

func TestDetectBackfillsSnippets(t *testing.T) {
	gw := &stubGateway{response: `{"conflicts":[{
		"fact_description":"Claimant direction of travel",
		"conflicting_values":["N","S"],
		"value_details":[
			{"value":"N","sources":["claimant"]},
			{"value":"S","sources":["other_driver"]}
		]
	}]}`}
	d := New(gw, model.LLMConfig{}, nil)

	got := d.Detect(context.Background(), headingFacts())
	if len(got) != 1 {
		t.Fatalf("conflicts = %d, want 1", len(got))
	}
	details := got[0].ValueDetails
	if len(details) != 2 {
		t.Fatalf("value details = %d", len(details))
	}
	if len(details[0].SourceSnippets) != 1 || details[0].SourceSnippets[0] != "I was heading north on Main Street" {
		t.Errorf("value N snippets = %v", details[0].SourceSnippets)
	}
	if len(details[1].SourceSnippets) != 1 || details[1].SourceSnippets[0] != "the other car was going south" {
		t.Errorf("value S snippets = %v", details[1].SourceSnippets)
	}
}

func TestBackfillRespectsSourceAndValue(t *testing.T) {
	// The claimed source is other_driver, but only the claimant fact holds
	// value N; no snippet may be invented from the wrong source.
	detail := model.ValueDetail{Value: "N", Sources: []model.SourceType{model.SourceOtherDriver}}
	got := backfillSnippets(detail, headingFacts())
	if len(got) != 0 {
		t.Errorf("backfilled from a non-matching fact: %v", got)
	}
}

func TestBackfillCapsSnippets(t *testing.T) {
	facts := make([]model.Fact, 0, 6)
	for i := 0; i < 6; i++ {
		facts = append(facts, model.Fact{
			SourceText:      strings.Repeat("x", i+1) + " heading north",
			NormalizedValue: "N",
			Source:          model.SourceClaimant,
		})
	}
	detail := model.ValueDetail{Value: "N", Sources: []model.SourceType{model.SourceClaimant}}
	got := backfillSnippets(detail, facts)
	if len(got) != maxBackfill {
		t.Errorf("snippets = %d, want %d", len(got), maxBackfill)
	}
}

func TestBackfillTruncatesLongSnippets(t *testing.T) {
	facts := []model.Fact{{
		SourceText:      strings.Repeat("a", 500),
		NormalizedValue: "N",
		Source:          model.SourceClaimant,
	}}
	detail := model.ValueDetail{Value: "N", Sources: []model.SourceType{model.SourceClaimant}}
	got := backfillSnippets(detail, facts)
	if len(got) != 1 || len(got[0]) != snippetLimit {
		t.Errorf("snippet length = %d, want %d", len(got[0]), snippetLimit)
	}
}

func TestDetectDegradesOnGatewayFailure(t *testing.T) {
	gw := &stubGateway{err: errors.New("boom")}
	d := New(gw, model.LLMConfig{}, nil)

	got := d.Detect(context.Background(), headingFacts())
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty list on gateway failure", got)
	}
}

func TestDetectDegradesOnUnparsableResponse(t *testing.T) {
	gw := &stubGateway{response: "I found no conflicts worth mentioning."}
	d := New(gw, model.LLMConfig{}, nil)

	got := d.Detect(context.Background(), headingFacts())
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty list on unparsable response", got)
	}
}

func TestValueMatches(t *testing.T) {
	tests := []struct {
		claimed, actual string
		want            bool
	}{
		{"N", "N", true},
		{"n", "N", true},
		{"heading north", "north", true},
		{"north", "heading north", true},
		{"N", "S", false},
		{"", "N", false},
		{"N", "", false},
	}
	for _, tt := range tests {
		if got := valueMatches(tt.claimed, tt.actual); got != tt.want {
			t.Errorf("valueMatches(%q, %q) = %v, want %v", tt.claimed, tt.actual, got, tt.want)
		}
	}
}
