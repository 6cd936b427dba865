package attribute

import (
	"context"
	"testing"

	"github.com/kavya5jan-prog/ema-claims/internal/llm"
	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

// stubGateway returns a fixed response, counting invocations
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

func TestSourceFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     model.SourceType
	}{
		{"FNOL_2024_001.pdf", model.SourceFNOL},
		{"claimant_statement.pdf", model.SourceClaimant},
		{"other_driver_account.pdf", model.SourceOtherDriver},
		{"Police-Report-55.pdf", model.SourcePolice},
		{"repair_quote.pdf", model.SourceRepairEstimate},
		{"body_shop_estimate.pdf", model.SourceRepairEstimate},
		{"policy_declarations.pdf", model.SourcePolicy},
		{"recording_03.mp3", model.SourceUnknown},
	}
	for _, tt := range tests {
		if got := SourceFromFilename(tt.filename); got != tt.want {
			t.Errorf("SourceFromFilename(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

// The claimant rule outranks the police rule, so a filename holding both
// keywords resolves by rule order, not keyword position.
func TestSourceFromFilenameRuleOrder(t *testing.T) {
	if got := SourceFromFilename("police_claimant_joint.pdf"); got != model.SourceClaimant {
		t.Errorf("got %q, want claimant (earlier rule wins)", got)
	}
}

func TestResolveSourceFilenameWinsOverClassifier(t *testing.T) {
	gw := &stubGateway{response: `{"document_type":"policy","confidence":0.95,"is_relevant":true}`}
	r := NewResolver(gw, model.ClassifierConfig{}, nil)

	source, relevant := r.ResolveSource(context.Background(), "police_report.pdf", "long enough content to trigger classification if reached")
	if source != model.SourcePolice || !relevant {
		t.Errorf("got (%q, %v), want (police, true)", source, relevant)
	}
	if gw.calls != 0 {
		t.Errorf("classifier invoked %d times despite filename match", gw.calls)
	}
}

func TestResolveSourceClassifierFallback(t *testing.T) {
	gw := &stubGateway{response: `{"document_type":"other_driver","confidence":0.85,"is_relevant":true}`}
	r := NewResolver(gw, model.ClassifierConfig{}, nil)

	content := "The other vehicle entered the intersection against the signal and struck my front bumper."
	source, relevant := r.ResolveSource(context.Background(), "upload_7731.pdf", content)
	if source != model.SourceOtherDriver || !relevant {
		t.Errorf("got (%q, %v), want (other_driver, true)", source, relevant)
	}
	if gw.calls != 1 {
		t.Errorf("classifier calls = %d, want 1", gw.calls)
	}
}

func TestResolveSourceLowConfidenceRejected(t *testing.T) {
	gw := &stubGateway{response: `{"document_type":"claimant","confidence":0.4,"is_relevant":true}`}
	r := NewResolver(gw, model.ClassifierConfig{}, nil)

	content := "Some ambiguous scanned text that could have come from anywhere in the file set."
	source, relevant := r.ResolveSource(context.Background(), "scan.pdf", content)
	if source != model.SourceUnknown {
		t.Errorf("low-confidence verdict accepted: %q", source)
	}
	if !relevant {
		t.Error("relevance should still be reported from a low-confidence verdict")
	}
}

func TestResolveSourceClassifierCached(t *testing.T) {
	gw := &stubGateway{response: `{"document_type":"claimant","confidence":0.9,"is_relevant":true}`}
	r := NewResolver(gw, model.ClassifierConfig{}, nil)

	content := "I was stopped at the light when the other car rolled back into me without warning."
	for i := 0; i < 3; i++ {
		source, _ := r.ResolveSource(context.Background(), "statement_scan.pdf", content)
		if source != model.SourceClaimant {
			t.Fatalf("round %d: source = %q", i, source)
		}
	}
	if gw.calls != 1 {
		t.Errorf("classifier calls = %d, want 1 (verdict should be cached)", gw.calls)
	}
}

func TestResolveSourceShortContentSkipsClassifier(t *testing.T) {
	gw := &stubGateway{response: `{"document_type":"claimant","confidence":0.9,"is_relevant":true}`}
	r := NewResolver(gw, model.ClassifierConfig{}, nil)

	source, relevant := r.ResolveSource(context.Background(), "note.pdf", "too short")
	if source != model.SourceUnknown || relevant {
		t.Errorf("got (%q, %v), want (unknown, false)", source, relevant)
	}
	if gw.calls != 0 {
		t.Errorf("classifier invoked on sub-minimum content")
	}
}

func TestResolveSourceNilGateway(t *testing.T) {
	r := NewResolver(nil, model.ClassifierConfig{}, nil)
	source, relevant := r.ResolveSource(context.Background(), "upload.pdf", "plenty of content here that would otherwise go to the classifier")
	if source != model.SourceUnknown || relevant {
		t.Errorf("got (%q, %v), want (unknown, false)", source, relevant)
	}
}

func TestAttributeFactsFilenameKeywordStage(t *testing.T) {
	docs := []model.DocumentRecord{
		{Filename: "police_report.pdf", Type: model.DocumentPDF},
	}
	sources := []model.SourceType{model.SourcePolice}
	facts := []model.Fact{
		{SourceText: "per the police report, driver A failed to yield", Source: model.SourceUnknown},
	}

	AttributeFacts(facts, docs, sources)
	if facts[0].Source != model.SourcePolice {
		t.Errorf("source = %q, want police", facts[0].Source)
	}
}

func TestAttributeFactsLexicalOverlapStage(t *testing.T) {
	docs := []model.DocumentRecord{
		{
			Filename: "upload_1.pdf",
			Type:     model.DocumentPDF,
			Pages:    []model.Page{{PageNumber: 1, Text: "The intersection signal showed green while approaching northbound"}},
		},
		{
			Filename: "upload_2.pdf",
			Type:     model.DocumentPDF,
			Pages:    []model.Page{{PageNumber: 1, Text: "Bumper replacement paint labor subtotal estimate"}},
		},
	}
	sources := []model.SourceType{model.SourceClaimant, model.SourceRepairEstimate}
	facts := []model.Fact{
		{SourceText: "signal showed green while approaching", Source: model.SourceUnknown},
		{SourceText: "bumper replacement paint estimate", Source: ""},
	}

	AttributeFacts(facts, docs, sources)
	if facts[0].Source != model.SourceClaimant {
		t.Errorf("fact 0 source = %q, want claimant", facts[0].Source)
	}
	if facts[1].Source != model.SourceRepairEstimate {
		t.Errorf("fact 1 source = %q, want repair_estimate", facts[1].Source)
	}
}

// When two documents both overlap a fact, the first document in input order
// wins. That tie-break must not depend on map iteration order.
func TestAttributeFactsFirstDocumentTieBreak(t *testing.T) {
	shared := "vehicle entered intersection heading northbound against signal"
	docs := []model.DocumentRecord{
		{Filename: "upload_a.pdf", Type: model.DocumentPDF, Pages: []model.Page{{PageNumber: 1, Text: shared}}},
		{Filename: "upload_b.pdf", Type: model.DocumentPDF, Pages: []model.Page{{PageNumber: 1, Text: shared}}},
	}
	sources := []model.SourceType{model.SourceClaimant, model.SourceOtherDriver}

	for i := 0; i < 20; i++ {
		facts := []model.Fact{{SourceText: shared, Source: model.SourceUnknown}}
		AttributeFacts(facts, docs, sources)
		if facts[0].Source != model.SourceClaimant {
			t.Fatalf("round %d: source = %q, want claimant (first document)", i, facts[0].Source)
		}
	}
}

func TestAttributeFactsKeepsResolvedSource(t *testing.T) {
	docs := []model.DocumentRecord{{Filename: "police_report.pdf", Type: model.DocumentPDF}}
	sources := []model.SourceType{model.SourcePolice}
	facts := []model.Fact{
		{SourceText: "per the police report", Source: model.SourceClaimant},
	}

	AttributeFacts(facts, docs, sources)
	if facts[0].Source != model.SourceClaimant {
		t.Errorf("already attributed fact was overwritten: %q", facts[0].Source)
	}
}

func TestAttributeFactsInsufficientOverlap(t *testing.T) {
	docs := []model.DocumentRecord{
		{Filename: "upload.pdf", Type: model.DocumentPDF, Pages: []model.Page{{PageNumber: 1, Text: "completely unrelated material about paperwork"}}},
	}
	sources := []model.SourceType{model.SourceClaimant}
	facts := []model.Fact{
		{SourceText: "light turned green", Source: model.SourceUnknown},
	}

	AttributeFacts(facts, docs, sources)
	if facts[0].Source != model.SourceUnknown {
		t.Errorf("source = %q, want unknown (single-word overlap is not enough)", facts[0].Source)
	}
}
