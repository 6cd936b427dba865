// Package analysis derives adjuster-facing artifacts from the normalized
// fact matrix: liability signals, timelines, split recommendations,
// rationales, escalation packets, and evidence checks. Each operation is
// one structured gateway round-trip.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kavya5jan-prog/ema-claims/internal/llm"
	"github.com/kavya5jan-prog/ema-claims/internal/model"
	"github.com/kavya5jan-prog/ema-claims/internal/prompts"
)

// ErrNoFacts is returned when an operation requires a non-empty fact matrix
var ErrNoFacts = errors.New("no facts provided; extract facts first")

// ErrNoFiles is returned when an operation requires the uploaded file list
var ErrNoFiles = errors.New("no files provided; upload documents first")

// Analyzer runs the derived-artifact operations
type Analyzer struct {
	gw  llm.Gateway
	cfg model.LLMConfig
	log *zap.Logger
}

// New creates an Analyzer
func New(gw llm.Gateway, cfg model.LLMConfig, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{gw: gw, cfg: cfg, log: log}
}

// LiabilitySignals maps the fact matrix into the liability signal grid
func (a *Analyzer) LiabilitySignals(ctx context.Context, facts []model.Fact) ([]model.LiabilitySignal, error) {
	if len(facts) == 0 {
		return nil, ErrNoFacts
	}

	var set model.SignalSet
	err := a.structured(ctx, prompts.LiabilitySignals, prompts.FactMatrix(facts), &set)
	if err != nil {
		return nil, fmt.Errorf("liability signal analysis: %w", err)
	}
	return set.Signals, nil
}

// Timeline reconstructs the accident chronology from the fact matrix
func (a *Analyzer) Timeline(ctx context.Context, facts []model.Fact) (*model.Timeline, error) {
	if len(facts) == 0 {
		return nil, ErrNoFacts
	}

	var b strings.Builder
	b.WriteString("\n\nFacts:\n")
	for i, f := range facts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f.ExtractedFact)
	}

	var timeline model.Timeline
	if err := a.structured(ctx, prompts.Timeline, b.String(), &timeline); err != nil {
		return nil, fmt.Errorf("timeline generation: %w", err)
	}
	return &timeline, nil
}

// LiabilityRecommendation produces a liability split that always sums to
// 100 after clamping each percentage to [0,100].
func (a *Analyzer) LiabilityRecommendation(ctx context.Context, facts []model.Fact, signals []model.LiabilitySignal) (*model.LiabilityRecommendation, error) {
	if len(facts) == 0 {
		return nil, ErrNoFacts
	}

	content := "\n\nFacts:\n" + prompts.FactList(facts) +
		"\n\nSignals:\n" + prompts.SignalList(signals)

	var rec model.LiabilityRecommendation
	if err := a.structured(ctx, prompts.LiabilityRecommendation, content, &rec); err != nil {
		return nil, fmt.Errorf("liability recommendation: %w", err)
	}

	rec.ClaimantLiabilityPercent, rec.OtherDriverLiabilityPercent =
		reconcileSplit(rec.ClaimantLiabilityPercent, rec.OtherDriverLiabilityPercent)
	return &rec, nil
}

// ClaimRationale builds the adjuster rationale document
func (a *Analyzer) ClaimRationale(ctx context.Context, facts []model.Fact, signals []model.LiabilitySignal, rec *model.LiabilityRecommendation) (*model.ClaimRationale, error) {
	content := rationaleInputs(facts, signals, rec, nil)

	var rationale model.ClaimRationale
	if err := a.structured(ctx, prompts.ClaimRationale, content, &rationale); err != nil {
		return nil, fmt.Errorf("claim rationale generation: %w", err)
	}
	return &rationale, nil
}

// EscalationPackage assembles the supervisor escalation packet
func (a *Analyzer) EscalationPackage(ctx context.Context, facts []model.Fact, signals []model.LiabilitySignal, rec *model.LiabilityRecommendation, rationale *model.ClaimRationale) (*model.EscalationPackage, error) {
	content := rationaleInputs(facts, signals, rec, rationale)

	var pkg model.EscalationPackage
	if err := a.structured(ctx, prompts.Escalation, content, &pkg); err != nil {
		return nil, fmt.Errorf("escalation package generation: %w", err)
	}
	return &pkg, nil
}

// EvidenceCompleteness checks the uploaded file listing against the
// standard evidence package
func (a *Analyzer) EvidenceCompleteness(ctx context.Context, docs []model.DocumentRecord) (*model.EvidenceCompleteness, error) {
	if len(docs) == 0 {
		return nil, ErrNoFiles
	}

	var result model.EvidenceCompleteness
	if err := a.structured(ctx, prompts.EvidenceCompleteness, prompts.FileListing(docs), &result); err != nil {
		return nil, fmt.Errorf("evidence completeness check: %w", err)
	}
	return &result, nil
}

// Summarize generates the free-text narrative summary of the documents.
// This is the one call allowed off deterministic mode.
func (a *Analyzer) Summarize(ctx context.Context, docs []model.DocumentRecord, sources []model.SourceType) (string, error) {
	if len(docs) == 0 {
		return "", ErrNoFiles
	}

	var b strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&b, "\n--- Document: %s (Source: %s) ---\n", doc.Name(), sources[i])
		if doc.Transcription != "" {
			fmt.Fprintf(&b, "%s\n", doc.Transcription)
		}
		for _, page := range doc.Pages {
			if text := strings.TrimSpace(page.Text); text != "" {
				fmt.Fprintf(&b, "%s\n", text)
			}
		}
	}

	summary, err := a.gw.Invoke(ctx, llm.Request{
		SystemPrompt: prompts.Summary,
		Text:         b.String(),
		MaxTokens:    a.summaryTokens(),
		Temperature:  0.3,
		Timeout:      a.cfg.Timeout,
	})
	if err != nil {
		return "", fmt.Errorf("summary generation: %w", err)
	}
	return summary, nil
}

// EmailRequest describes a missing-evidence email to draft
type EmailRequest struct {
	ContactName  string
	ContactRole  string
	ClaimContext string
	MissingItems []string
}

// DraftEmail writes a plain-text evidence request email
func (a *Analyzer) DraftEmail(ctx context.Context, req EmailRequest) (string, error) {
	if len(req.MissingItems) == 0 {
		return "", errors.New("no missing evidence items specified")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Contact: %s (%s)\n", req.ContactName, req.ContactRole)
	if req.ClaimContext != "" {
		fmt.Fprintf(&b, "\nClaim context:\n%s\n", req.ClaimContext)
	}
	b.WriteString("\nMissing evidence to request:\n")
	for _, item := range req.MissingItems {
		fmt.Fprintf(&b, "- %s\n", item)
	}

	email, err := a.gw.Invoke(ctx, llm.Request{
		SystemPrompt: prompts.EmailDraft,
		Text:         b.String(),
		MaxTokens:    a.summaryTokens(),
		Temperature:  0.3,
		Timeout:      a.cfg.Timeout,
	})
	if err != nil {
		return "", fmt.Errorf("email draft generation: %w", err)
	}
	return email, nil
}

func (a *Analyzer) structured(ctx context.Context, systemPrompt, content string, v any) error {
	raw, err := a.gw.Invoke(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		Text:         content,
		MaxTokens:    a.cfg.MaxTokens,
		JSONMode:     true,
		Timeout:      a.cfg.Timeout,
	})
	if err != nil {
		return err
	}
	return llm.ParseJSON(raw, v)
}

func (a *Analyzer) summaryTokens() int {
	if a.cfg.SummaryMaxTokens > 0 {
		return a.cfg.SummaryMaxTokens
	}
	return 2000
}

func rationaleInputs(facts []model.Fact, signals []model.LiabilitySignal, rec *model.LiabilityRecommendation, rationale *model.ClaimRationale) string {
	var b strings.Builder
	b.WriteString("Facts:\n")
	b.WriteString(prompts.FactList(facts))
	b.WriteString("\nSignals:\n")
	b.WriteString(prompts.SignalList(signals))
	if rec != nil {
		fmt.Fprintf(&b, "\nRecommendation:\nclaimant %d%% / other driver %d%%\n%s\n",
			rec.ClaimantLiabilityPercent, rec.OtherDriverLiabilityPercent, rec.Reasoning)
	}
	if rationale != nil {
		fmt.Fprintf(&b, "\nRationale:\n%s\n%s\n", rationale.Overview, rationale.LiabilityExplanation)
	}
	return b.String()
}

// reconcileSplit clamps both percentages to [0,100] and rescales the pair
// so they sum to exactly 100, favoring the claimant side in rounding
func reconcileSplit(claimant, other int) (int, int) {
	claimant = clamp(claimant)
	other = clamp(other)

	total := claimant + other
	if total == 0 {
		return 50, 50
	}
	scaled := int(float64(claimant)*100/float64(total) + 0.5)
	return scaled, 100 - scaled
}

func clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
