// Package pipeline orchestrates the document-to-fact extraction flow:
// governor check, content packaging, the extraction round-trip, structured
// parsing, attribution repair, normalization, and conflict detection.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kavya5jan-prog/ema-claims/internal/attribute"
	"github.com/kavya5jan-prog/ema-claims/internal/conflict"
	"github.com/kavya5jan-prog/ema-claims/internal/govern"
	"github.com/kavya5jan-prog/ema-claims/internal/llm"
	"github.com/kavya5jan-prog/ema-claims/internal/model"
	"github.com/kavya5jan-prog/ema-claims/internal/normalize"
	"github.com/kavya5jan-prog/ema-claims/internal/packager"
	"github.com/kavya5jan-prog/ema-claims/internal/prompts"
)

// Pipeline wires the extraction stages around an injected gateway.
// Construct it once at process start; it holds no per-request state.
type Pipeline struct {
	gw       llm.Gateway
	governor *govern.Governor
	packager *packager.Packager
	resolver *attribute.Resolver
	detector *conflict.Detector
	cfg      *model.Config
	log      *zap.Logger
}

// New creates a Pipeline. The gateway is a hard dependency; tests pass a
// stub implementation.
func New(cfg *model.Config, gw llm.Gateway, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		gw:       gw,
		governor: govern.New(cfg.Limits, log),
		packager: packager.New(cfg.Images, cfg.Limits, log),
		resolver: attribute.NewResolver(gw, cfg.Classifier, log),
		detector: conflict.New(gw, cfg.LLM, log),
		cfg:      cfg,
		log:      log,
	}
}

// Resolver exposes the document source resolver for callers that need
// standalone classification (e.g. the summarize command).
func (p *Pipeline) Resolver() *attribute.Resolver {
	return p.resolver
}

// ExtractFacts runs the full extraction flow over the documents.
//
// Resource-ceiling and extraction failures abort the call. Conflict
// detection failures do not: facts are returned with an empty conflict
// list and the degradation is logged.
func (p *Pipeline) ExtractFacts(ctx context.Context, docs []model.DocumentRecord) (*model.ExtractionResult, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents provided")
	}

	// Fail fast before any image decoding or network traffic
	if err := p.governor.Check(docs); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := p.log.With(zap.String("run_id", runID))

	sources := p.resolver.ResolveAll(ctx, docs)
	payload := p.packager.Build(prompts.FactExtraction, docs, sources)

	log.Info("invoking model for fact extraction",
		zap.Int("documents", len(docs)),
		zap.Int("images", len(payload.Images)),
		zap.Int("dropped_images", payload.DroppedImages),
		zap.Int("text_bytes", len(payload.Text)))

	raw, err := p.gw.Invoke(ctx, llm.Request{
		Text:      payload.Text,
		Images:    payload.Images,
		MaxTokens: p.cfg.LLM.MaxTokens,
		JSONMode:  true,
		Timeout:   p.cfg.LLM.ExtractionTimeout,
	})
	// Image buffers are no longer needed once the call returns
	payload.Images = nil
	if err != nil {
		return nil, fmt.Errorf("fact extraction failed: %w", err)
	}

	var set model.FactSet
	if err := llm.ParseJSON(raw, &set); err != nil {
		return nil, fmt.Errorf("fact extraction failed: %w", err)
	}

	// Repair provenance the model omitted, then canonicalize values
	attribute.AttributeFacts(set.Facts, docs, sources)
	facts := normalize.Facts(set.Facts)

	conflicts := p.detector.Detect(ctx, facts)

	log.Info("extraction complete",
		zap.Int("facts", len(facts)),
		zap.Int("conflicts", len(conflicts)))

	return &model.ExtractionResult{
		RunID:     runID,
		Facts:     facts,
		Conflicts: conflicts,
	}, nil
}
