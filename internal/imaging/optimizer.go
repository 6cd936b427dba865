// Package imaging re-encodes document images under the configured byte and
// dimension budgets before they are packaged for the model. Large decoded
// buffers deliberately stay scoped to a single call so they can be released
// as soon as the encoded output exists.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png" // registers PNG decoding for embedded page images
	"math"

	"go.uber.org/zap"

	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

// qualityLadder is the bounded fallback sequence tried when the first
// encode exceeds the byte budget. There is no retry beyond it.
var qualityLadder = []int{75, 65, 55, 45}

const minDimension = 100

// Optimizer re-encodes images as bounded JPEGs
type Optimizer struct {
	cfg model.ImageConfig
	log *zap.Logger
}

// New creates an Optimizer
func New(cfg model.ImageConfig, log *zap.Logger) *Optimizer {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxDimension <= 0 {
		cfg.MaxDimension = 2048
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = 85
	}
	return &Optimizer{cfg: cfg, log: log}
}

// OptimizeBytes decodes raw image bytes and optimizes them.
// Failure affects only the one image, never the whole request.
func (o *Optimizer) OptimizeBytes(data []byte) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return o.Optimize(img)
}

// Optimize flattens, downscales, and JPEG-encodes the image, walking the
// quality ladder when the result exceeds the byte budget and rescaling by
// area as the final step. Returns the encoded bytes and MIME type.
func (o *Optimizer) Optimize(img image.Image) ([]byte, string, error) {
	rgb := flatten(img)

	if w, h := dims(rgb); w > o.cfg.MaxDimension || h > o.cfg.MaxDimension {
		ratio := min(float64(o.cfg.MaxDimension)/float64(w), float64(o.cfg.MaxDimension)/float64(h))
		rgb = scale(rgb, int(float64(w)*ratio), int(float64(h)*ratio))
	}

	encoded, err := encodeJPEG(rgb, o.cfg.JPEGQuality)
	if err != nil {
		return nil, "", err
	}

	if o.cfg.MaxBytes > 0 && int64(len(encoded)) > o.cfg.MaxBytes {
		for _, quality := range qualityLadder {
			encoded, err = encodeJPEG(rgb, quality)
			if err != nil {
				return nil, "", err
			}
			if int64(len(encoded)) <= o.cfg.MaxBytes {
				break
			}
		}
	}

	if o.cfg.MaxBytes > 0 && int64(len(encoded)) > o.cfg.MaxBytes {
		// Last resort: shrink the pixel area in proportion to the overage
		w, h := dims(rgb)
		factor := math.Sqrt(float64(o.cfg.MaxBytes) / float64(len(encoded)))
		newW := max(minDimension, int(float64(w)*factor))
		newH := max(minDimension, int(float64(h)*factor))
		rgb = scale(rgb, newW, newH)

		encoded, err = encodeJPEG(rgb, o.cfg.JPEGQuality)
		if err != nil {
			return nil, "", err
		}
		if int64(len(encoded)) > o.cfg.MaxBytes {
			o.log.Warn("image still over byte budget after rescale",
				zap.Int("bytes", len(encoded)),
				zap.Int64("max_bytes", o.cfg.MaxBytes))
		}
	}

	return encoded, "image/jpeg", nil
}

// flatten renders the image onto a white RGB background, discarding any
// alpha channel (JPEG has no transparency)
func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgb := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgb, rgb.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(rgb, rgb.Bounds(), img, bounds.Min, draw.Over)
	return rgb
}

// scale resizes with nearest-neighbor sampling
func scale(src *image.RGBA, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	srcW, srcH := dims(src)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sy := y * srcH / h
		for x := 0; x < w; x++ {
			sx := x * srcW / w
			dst.Set(x, y, src.At(src.Bounds().Min.X+sx, src.Bounds().Min.Y+sy))
		}
	}
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func dims(img image.Image) (int, int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

