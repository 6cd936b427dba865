// Package attribute resolves which claim party a document or fact came from.
//
// Document resolution is filename-keyword first, then an LLM content
// classifier as fallback. Fact attribution repairs the source field the
// model omitted or left unknown, using a two-stage heuristic: filename
// keyword matching, then lexical overlap. Both stages are deterministic
// with a first-match-in-input-order tie-break; the matching is deliberately
// not smarter than that.
package attribute

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kavya5jan-prog/ema-claims/internal/llm"
	"github.com/kavya5jan-prog/ema-claims/internal/model"
	"github.com/kavya5jan-prog/ema-claims/internal/prompts"
)

// filenameRules map keyword substrings to source types, checked in order
var filenameRules = []struct {
	keywords []string
	source   model.SourceType
}{
	{[]string{"fnol"}, model.SourceFNOL},
	{[]string{"claimant"}, model.SourceClaimant},
	{[]string{"other_driver", "other driver"}, model.SourceOtherDriver},
	{[]string{"police"}, model.SourcePolice},
	{[]string{"repair", "estimate"}, model.SourceRepairEstimate},
	{[]string{"policy"}, model.SourcePolicy},
}

// SourceFromFilename maps a filename to a source type by keyword substrings
func SourceFromFilename(filename string) model.SourceType {
	lower := strings.ToLower(filename)
	for _, rule := range filenameRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.source
			}
		}
	}
	return model.SourceUnknown
}

// Resolver resolves document sources, reaching for the LLM classifier only
// when the filename gives nothing away.
type Resolver struct {
	gw    llm.Gateway
	cache *classificationCache
	cfg   model.ClassifierConfig
	log   *zap.Logger
}

// NewResolver creates a Resolver. gw may be nil, in which case the content
// classifier is disabled and unknown filenames stay unknown.
func NewResolver(gw llm.Gateway, cfg model.ClassifierConfig, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.6
	}
	if cfg.MinContentLen <= 0 {
		cfg.MinContentLen = 50
	}
	if cfg.SampleLen <= 0 {
		cfg.SampleLen = 2000
	}
	return &Resolver{
		gw:    gw,
		cache: newClassificationCache(cfg.CacheTTL),
		cfg:   cfg,
		log:   log,
	}
}

// ResolveSource identifies a document's source type. Filename keywords win;
// content classification is the fallback, accepted only above the configured
// confidence floor. The boolean reports whether the document looks relevant
// to an auto claim at all.
func (r *Resolver) ResolveSource(ctx context.Context, filename, content string) (model.SourceType, bool) {
	if source := SourceFromFilename(filename); source != model.SourceUnknown {
		return source, true
	}
	if content == "" {
		return model.SourceUnknown, false
	}
	return r.classify(ctx, filename, content)
}

// ResolveAll resolves every document in input order, sampling each record's
// text for the classifier fallback.
func (r *Resolver) ResolveAll(ctx context.Context, docs []model.DocumentRecord) []model.SourceType {
	sources := make([]model.SourceType, len(docs))
	for i, doc := range docs {
		source, _ := r.ResolveSource(ctx, doc.Alias(), fullText(doc, r.cfg.SampleLen))
		sources[i] = source
	}
	return sources
}

func (r *Resolver) classify(ctx context.Context, filename, content string) (model.SourceType, bool) {
	if r.gw == nil {
		return model.SourceUnknown, false
	}
	if len(strings.TrimSpace(content)) < r.cfg.MinContentLen {
		return model.SourceUnknown, false
	}

	sample := content
	if len(sample) > r.cfg.SampleLen {
		sample = sample[:r.cfg.SampleLen]
	}

	key := cacheKey(filename, sample)
	cls, found := r.cache.get(key)
	if !found {
		var err error
		cls, err = r.callClassifier(ctx, filename, sample)
		if err != nil {
			r.log.Warn("document classification failed",
				zap.String("filename", filename),
				zap.Error(err))
			return model.SourceUnknown, false
		}
		r.cache.set(key, cls)
	}

	if cls.Confidence >= r.cfg.MinConfidence && cls.DocumentType != model.SourceUnknown {
		return cls.DocumentType, cls.IsRelevant
	}
	// Type stays unknown, but relevance is still worth reporting
	return model.SourceUnknown, cls.IsRelevant
}

func (r *Resolver) callClassifier(ctx context.Context, filename, sample string) (model.Classification, error) {
	prompt := fmt.Sprintf("%s\n\nFilename: %s\n\nContent:\n%s", prompts.Classification, filename, sample)

	raw, err := r.gw.Invoke(ctx, llm.Request{
		Text:      prompt,
		MaxTokens: 500,
		JSONMode:  true,
	})
	if err != nil {
		return model.Classification{}, err
	}

	var cls model.Classification
	if err := llm.ParseJSON(raw, &cls); err != nil {
		return model.Classification{}, err
	}
	if cls.DocumentType == "" {
		cls.DocumentType = model.SourceUnknown
	}
	return cls, nil
}

// AttributeFacts repairs the source field on facts the model left missing
// or unknown. sources must be aligned with docs (one resolved source per
// record, as returned by ResolveAll). Facts are mutated in place.
func AttributeFacts(facts []model.Fact, docs []model.DocumentRecord, sources []model.SourceType) {
	type namedSource struct {
		name   string
		source model.SourceType
	}
	type sampledSource struct {
		source model.SourceType
		words  map[string]bool
	}

	// Both the alias and the raw filename participate in keyword matching,
	// preserving document input order for the tie-break.
	var names []namedSource
	var samples []sampledSource
	sampleIdx := make(map[model.SourceType]int)

	for i, doc := range docs {
		source := sources[i]
		names = append(names, namedSource{strings.ToLower(doc.Alias()), source})
		if doc.Name() != doc.Alias() {
			names = append(names, namedSource{strings.ToLower(doc.Name()), source})
		}

		sample := overlapSample(doc)
		if sample == "" {
			continue
		}
		words := significantWords(strings.ToLower(sample), 4)
		if idx, seen := sampleIdx[source]; seen {
			samples[idx].words = words
		} else {
			sampleIdx[source] = len(samples)
			samples = append(samples, sampledSource{source, words})
		}
	}

	for i := range facts {
		if facts[i].Source != "" && facts[i].Source != model.SourceUnknown {
			continue
		}
		sourceText := strings.ToLower(facts[i].SourceText)

		// Stage 1: filename keywords appearing in the fact's source text
		matched := false
		for _, ns := range names {
			for _, kw := range filenameKeywords(ns.name) {
				if strings.Contains(sourceText, kw) {
					facts[i].Source = ns.source
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if matched || sourceText == "" {
			continue
		}

		// Stage 2: lexical overlap with each document's text sample
		factWords := significantWords(sourceText, 4)
		if len(factWords) == 0 {
			continue
		}
		for _, ss := range samples {
			if overlap(factWords, ss.words) >= 2 {
				facts[i].Source = ss.source
				break
			}
		}
	}
}

// filenameKeywords splits a filename into lowercase keywords longer than
// three characters, treating underscores and hyphens as separators
func filenameKeywords(name string) []string {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(name)
	var keywords []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) > 3 {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// significantWords collects words strictly longer than minLen
func significantWords(text string, minLen int) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		if len(w) > minLen {
			words[w] = true
		}
	}
	return words
}

func overlap(a, b map[string]bool) int {
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
}

// overlapSample extracts the text sample the lexical-overlap stage matches
// against: the first 200 characters of each of the first two pages for pdf
// records, or the first 400 characters of an audio transcription.
func overlapSample(doc model.DocumentRecord) string {
	switch doc.Type {
	case model.DocumentAudio:
		if doc.Transcription != "" {
			if len(doc.Transcription) > 400 {
				return doc.Transcription[:400]
			}
			return doc.Transcription
		}
		return pageSample(doc.Pages)
	case model.DocumentPDF:
		return pageSample(doc.Pages)
	default:
		return ""
	}
}

func pageSample(pages []model.Page) string {
	var parts []string
	for i, page := range pages {
		if i >= 2 {
			break
		}
		text := page.Text
		if len(text) > 200 {
			text = text[:200]
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// fullText concatenates all of a record's text up to limit, for the
// content classifier.
func fullText(doc model.DocumentRecord, limit int) string {
	var b strings.Builder
	if doc.Transcription != "" {
		b.WriteString(doc.Transcription)
	}
	for _, page := range doc.Pages {
		if b.Len() >= limit {
			break
		}
		if page.Text != "" {
			if b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString(page.Text)
		}
	}
	text := b.String()
	if len(text) > limit {
		text = text[:limit]
	}
	return text
}
