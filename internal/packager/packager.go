// Package packager converts heterogeneous document records into the single
// ordered multimodal payload the gateway transmits: one text block with
// per-document provenance headers, plus a bounded list of inline images.
package packager

import (
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kavya5jan-prog/ema-claims/internal/imaging"
	"github.com/kavya5jan-prog/ema-claims/internal/llm"
	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

// Payload is the packaged request content for one extraction call
type Payload struct {
	Text   string
	Images []llm.ImagePart

	// DroppedImages counts items excluded by the per-item size limit;
	// SkippedImages counts items excluded by the global cap.
	DroppedImages int
	SkippedImages int
}

// Packager assembles payloads under the exact image limits the gateway
// will actually transmit. The governor's earlier check is an estimate;
// these limits are enforced precisely here.
type Packager struct {
	maxImageBytes  int64
	maxImages      int
	maxPerPage     int
	maxPerDocument int
	optimizer      *imaging.Optimizer
	log            *zap.Logger
}

// New creates a Packager from the image and limit configuration
func New(images model.ImageConfig, limits model.LimitConfig, log *zap.Logger) *Packager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Packager{
		maxImageBytes:  images.MaxBytes,
		maxImages:      limits.MaxImagesPerRequest,
		maxPerPage:     images.MaxPerPage,
		maxPerDocument: images.MaxPerDocument,
		optimizer:      imaging.New(images, log),
		log:            log,
	}
}

// Build packages the documents behind the given instruction template.
// sources must be aligned with docs (one resolved source per record).
// Text for every document is always included; images stop accumulating
// once the global cap is hit.
func (p *Packager) Build(instruction string, docs []model.DocumentRecord, sources []model.SourceType) Payload {
	var text strings.Builder
	text.WriteString(instruction)

	payload := Payload{}

	for i, doc := range docs {
		fmt.Fprintf(&text, "\n--- Document: %s (Source: %s) ---\n", doc.Name(), sources[i])

		switch doc.Type {
		case model.DocumentPDF:
			p.addPages(&text, &payload, doc, "Page")
		case model.DocumentAudio:
			if doc.Transcription != "" {
				fmt.Fprintf(&text, "\nAudio Transcription:\n%s\n", doc.Transcription)
				p.addPageImages(&text, &payload, doc)
			} else {
				// Fallback: transcription chunks arrived as pages.
				// Audio records may carry PDF-extracted page images;
				// those are included like any other.
				p.addPages(&text, &payload, doc, "Audio Transcription")
			}
		case model.DocumentImage:
			p.addStandaloneImage(&text, &payload, doc)
		}
	}

	payload.Text = text.String()
	return payload
}

func (p *Packager) addPages(text *strings.Builder, payload *Payload, doc model.DocumentRecord, label string) {
	for _, page := range doc.Pages {
		if pageText := strings.TrimSpace(page.Text); pageText != "" {
			if label == "Page" {
				fmt.Fprintf(text, "\n%s %d:\n%s\n", label, page.PageNumber, pageText)
			} else {
				fmt.Fprintf(text, "\n%s:\n%s\n", label, pageText)
			}
		}
	}
	p.addPageImages(text, payload, doc)
}

func (p *Packager) addPageImages(text *strings.Builder, payload *Payload, doc model.DocumentRecord) {
	docCount := 0
	for _, page := range doc.Pages {
		pageCount := 0
		for _, img := range page.Images {
			if p.maxPerDocument > 0 && docCount >= p.maxPerDocument {
				payload.SkippedImages++
				continue
			}
			if p.maxPerPage > 0 && pageCount >= p.maxPerPage {
				payload.SkippedImages++
				continue
			}
			if len(payload.Images) >= p.maxImages {
				payload.SkippedImages++
				p.log.Warn("image cap reached, skipping remaining page images",
					zap.String("document", doc.Name()),
					zap.Int("max_images", p.maxImages))
				continue
			}
			if p.addImage(text, payload, doc.Name(), img.Data, img.Ext) {
				docCount++
				pageCount++
			}
		}
	}
}

func (p *Packager) addStandaloneImage(text *strings.Builder, payload *Payload, doc model.DocumentRecord) {
	if len(payload.Images) >= p.maxImages {
		payload.SkippedImages++
		fmt.Fprintf(text, "\nThis is an image file: %s (skipped due to image limit)\n", doc.Name())
		return
	}
	if p.addImage(text, payload, doc.Name(), doc.Data, doc.Format) {
		fmt.Fprintf(text, "\nThis is an image file: %s\n", doc.Name())
	}
}

// addImage normalizes the item to a data-URI and appends it, enforcing the
// per-item size limit. The 2x allowance covers base64 encoding overhead.
// Reports whether the image was added.
func (p *Packager) addImage(text *strings.Builder, payload *Payload, docName, data, formatHint string) bool {
	if data == "" {
		return false
	}

	base64Data, mimeType, ok := splitDataURI(data, formatHint)
	if !ok {
		return false
	}

	if p.maxImageBytes > 0 && int64(len(base64Data)) > p.maxImageBytes*2 {
		shrunk, shrunkMime, ok := p.shrink(docName, base64Data)
		if !ok {
			payload.DroppedImages++
			fmt.Fprintf(text, "\n[Image from %s omitted: exceeds the %dMB per-image limit]\n",
				docName, p.maxImageBytes/(1024*1024))
			p.log.Warn("dropping oversized image",
				zap.String("document", docName),
				zap.Int("encoded_bytes", len(base64Data)))
			return false
		}
		base64Data, mimeType = shrunk, shrunkMime
	}

	payload.Images = append(payload.Images, llm.ImagePart{
		URL: fmt.Sprintf("data:image/%s;base64,%s", mimeType, base64Data),
	})
	return true
}

// shrink re-encodes an oversized image under the per-item budget.
// Reports false when the data does not decode or the result is still over.
func (p *Packager) shrink(docName, base64Data string) (string, string, bool) {
	raw, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(base64Data)
	}
	if err != nil {
		return "", "", false
	}

	encoded, _, err := p.optimizer.OptimizeBytes(raw)
	if err != nil {
		p.log.Warn("image re-encode failed",
			zap.String("document", docName),
			zap.Error(err))
		return "", "", false
	}

	shrunk := base64.StdEncoding.EncodeToString(encoded)
	if int64(len(shrunk)) > p.maxImageBytes*2 {
		return "", "", false
	}
	p.log.Debug("re-encoded oversized image",
		zap.String("document", docName),
		zap.Int("before_bytes", len(base64Data)),
		zap.Int("after_bytes", len(shrunk)))
	return shrunk, "jpeg", true
}

// splitDataURI separates base64 payload and image subtype from either a
// full data-URI or a bare base64 string with a format hint
func splitDataURI(data, formatHint string) (base64Data, mimeType string, ok bool) {
	hint := strings.ToLower(formatHint)
	if hint == "" {
		hint = "png"
	}

	if !strings.HasPrefix(data, "data:") {
		return data, hint, true
	}

	parts := strings.SplitN(data, ",", 2)
	if len(parts) != 2 {
		return "", "", false
	}

	mimePart := parts[0]
	if idx := strings.Index(mimePart, "image/"); idx >= 0 {
		sub := mimePart[idx+len("image/"):]
		if semi := strings.IndexByte(sub, ';'); semi >= 0 {
			sub = sub[:semi]
		}
		if sub != "" {
			return parts[1], sub, true
		}
	}
	return parts[1], hint, true
}
