// Package govern enforces the hard resource ceilings on an extraction
// request before any external call is attempted.
package govern

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

// PayloadTooLargeError reports which pre-flight limit the request exceeded.
// It is never retryable; the caller must shrink the input.
type PayloadTooLargeError struct {
	Images    int
	MaxImages int
	Bytes     int64
	MaxBytes  int64
}

func (e *PayloadTooLargeError) Error() string {
	if e.MaxImages > 0 && e.Images > e.MaxImages {
		return fmt.Sprintf("too many images (%d); maximum allowed: %d - reduce the number of images or split the request",
			e.Images, e.MaxImages)
	}
	return fmt.Sprintf("request payload too large (estimated %.1fMB); maximum allowed: %.0fMB - reduce file sizes or the number of files",
		float64(e.Bytes)/(1024*1024), float64(e.MaxBytes)/(1024*1024))
}

// Governor validates aggregate request size against configured ceilings
type Governor struct {
	maxImages int
	maxBytes  int64
	log       *zap.Logger
}

// New creates a Governor from the limit configuration
func New(limits model.LimitConfig, log *zap.Logger) *Governor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Governor{
		maxImages: limits.MaxImagesPerRequest,
		maxBytes:  limits.MaxPayloadBytes,
		log:       log,
	}
}

// Check counts images and estimates serialized payload size across all
// document records. The byte figure is an estimate (base64 payloads plus
// text); the packager enforces the exact per-item limits later.
func (g *Governor) Check(docs []model.DocumentRecord) error {
	images := 0
	var bytes int64

	for _, doc := range docs {
		switch doc.Type {
		case model.DocumentImage:
			images++
			bytes += int64(len(doc.Data))
		default:
			for _, page := range doc.Pages {
				images += len(page.Images)
				bytes += int64(len(page.Text))
				for _, img := range page.Images {
					bytes += int64(len(img.Data))
				}
			}
			bytes += int64(len(doc.Transcription))
		}
	}

	if g.maxImages > 0 && images > g.maxImages {
		return &PayloadTooLargeError{Images: images, MaxImages: g.maxImages, Bytes: bytes, MaxBytes: g.maxBytes}
	}
	if g.maxBytes > 0 && bytes > g.maxBytes {
		return &PayloadTooLargeError{Images: images, MaxImages: g.maxImages, Bytes: bytes, MaxBytes: g.maxBytes}
	}

	g.log.Debug("payload within limits",
		zap.Int("images", images),
		zap.Int64("estimated_bytes", bytes))

	return nil
}
