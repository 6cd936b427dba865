package packager

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

func testPackager(maxImageBytes int64, maxImages int) *Packager {
	return New(
		model.ImageConfig{MaxBytes: maxImageBytes},
		model.LimitConfig{MaxImagesPerRequest: maxImages},
		nil,
	)
}

func TestBuildDocumentHeaders(t *testing.T) {
	p := testPackager(2*1024*1024, 20)
	docs := []model.DocumentRecord{
		{
			Filename: "police_report.pdf",
			Type:     model.DocumentPDF,
			Pages: []model.Page{
				{PageNumber: 1, Text: "Officer observed skid marks."},
				{PageNumber: 2, Text: "Driver A cited."},
			},
		},
		{
			Filename:      "claimant_call.mp3",
			Type:          model.DocumentAudio,
			Transcription: "I was heading north when the light turned green.",
		},
	}
	sources := []model.SourceType{model.SourcePolice, model.SourceClaimant}

	payload := p.Build("Extract all facts.", docs, sources)

	if !strings.HasPrefix(payload.Text, "Extract all facts.") {
		t.Error("instruction must lead the payload text")
	}
	for _, want := range []string{
		"--- Document: police_report.pdf (Source: police) ---",
		"--- Document: claimant_call.mp3 (Source: claimant) ---",
		"Page 1:\nOfficer observed skid marks.",
		"Page 2:\nDriver A cited.",
		"Audio Transcription:\nI was heading north when the light turned green.",
	} {
		if !strings.Contains(payload.Text, want) {
			t.Errorf("payload text missing %q\n---\n%s", want, payload.Text)
		}
	}
	if len(payload.Images) != 0 {
		t.Errorf("unexpected images: %d", len(payload.Images))
	}
}

func TestBuildAudioPagesFallback(t *testing.T) {
	p := testPackager(2*1024*1024, 20)
	docs := []model.DocumentRecord{{
		Filename: "interview.mp3",
		Type:     model.DocumentAudio,
		Pages:    []model.Page{{PageNumber: 1, Text: "chunk one"}},
	}}

	payload := p.Build("x", docs, []model.SourceType{model.SourceOtherDriver})
	if !strings.Contains(payload.Text, "Audio Transcription:\nchunk one") {
		t.Errorf("page-chunked transcription not labeled:\n%s", payload.Text)
	}
}

func TestBuildStandaloneImage(t *testing.T) {
	p := testPackager(2*1024*1024, 20)
	docs := []model.DocumentRecord{{
		Filename: "damage.jpg",
		Type:     model.DocumentImage,
		Data:     "QUJDRA==",
		Format:   "jpeg",
	}}

	payload := p.Build("x", docs, []model.SourceType{model.SourceClaimant})
	if len(payload.Images) != 1 {
		t.Fatalf("images = %d, want 1", len(payload.Images))
	}
	if payload.Images[0].URL != "data:image/jpeg;base64,QUJDRA==" {
		t.Errorf("image URL = %q", payload.Images[0].URL)
	}
	if !strings.Contains(payload.Text, "This is an image file: damage.jpg") {
		t.Errorf("image marker missing:\n%s", payload.Text)
	}
}

func TestBuildDataURIPassthrough(t *testing.T) {
	p := testPackager(2*1024*1024, 20)
	docs := []model.DocumentRecord{{
		Filename: "scene.png",
		Type:     model.DocumentImage,
		Data:     "data:image/png;base64,AAAA",
	}}

	payload := p.Build("x", docs, []model.SourceType{model.SourceUnknown})
	if len(payload.Images) != 1 {
		t.Fatalf("images = %d, want 1", len(payload.Images))
	}
	if payload.Images[0].URL != "data:image/png;base64,AAAA" {
		t.Errorf("URL = %q", payload.Images[0].URL)
	}
}

func TestBuildBareBase64DefaultsToPNG(t *testing.T) {
	p := testPackager(2*1024*1024, 20)
	docs := []model.DocumentRecord{{
		Filename: "scene",
		Type:     model.DocumentImage,
		Data:     "AAAA",
	}}

	payload := p.Build("x", docs, []model.SourceType{model.SourceUnknown})
	if len(payload.Images) != 1 {
		t.Fatalf("images = %d, want 1", len(payload.Images))
	}
	if !strings.HasPrefix(payload.Images[0].URL, "data:image/png;base64,") {
		t.Errorf("URL = %q, want png default", payload.Images[0].URL)
	}
}

func TestBuildDropsOversizedImage(t *testing.T) {
	p := testPackager(16, 20) // oversized means encoded length > 2x limit
	docs := []model.DocumentRecord{{
		Filename: "huge.jpg",
		Type:     model.DocumentImage,
		Data:     strings.Repeat("A", 64),
	}}

	payload := p.Build("x", docs, []model.SourceType{model.SourceClaimant})
	if len(payload.Images) != 0 {
		t.Fatalf("oversized image was included")
	}
	if payload.DroppedImages != 1 {
		t.Errorf("dropped = %d, want 1", payload.DroppedImages)
	}
	if !strings.Contains(payload.Text, "[Image from huge.jpg omitted") {
		t.Errorf("no text placeholder for dropped image:\n%s", payload.Text)
	}
}

// An oversized image that actually decodes is recompressed rather than
// dropped outright.
func TestBuildRecompressesOversizedImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), uint8(x ^ y), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	// Budget far below the PNG size but comfortably above a small JPEG
	p := New(
		model.ImageConfig{MaxBytes: int64(len(encoded)) / 3, MaxDimension: 2048, JPEGQuality: 85},
		model.LimitConfig{MaxImagesPerRequest: 20},
		nil,
	)

	docs := []model.DocumentRecord{{Filename: "photo.png", Type: model.DocumentImage, Data: encoded}}
	payload := p.Build("x", docs, []model.SourceType{model.SourceClaimant})

	if payload.DroppedImages != 0 {
		t.Fatalf("decodable oversized image was dropped")
	}
	if len(payload.Images) != 1 {
		t.Fatalf("images = %d, want 1", len(payload.Images))
	}
	if !strings.HasPrefix(payload.Images[0].URL, "data:image/jpeg;base64,") {
		t.Errorf("recompressed image should be jpeg: %.40q", payload.Images[0].URL)
	}
}

func TestBuildGlobalImageCap(t *testing.T) {
	p := testPackager(2*1024*1024, 2)
	docs := []model.DocumentRecord{
		{Filename: "a.jpg", Type: model.DocumentImage, Data: "AAAA"},
		{Filename: "b.jpg", Type: model.DocumentImage, Data: "BBBB"},
		{Filename: "c.jpg", Type: model.DocumentImage, Data: "CCCC"},
	}
	sources := []model.SourceType{model.SourceUnknown, model.SourceUnknown, model.SourceUnknown}

	payload := p.Build("x", docs, sources)
	if len(payload.Images) != 2 {
		t.Fatalf("images = %d, want 2", len(payload.Images))
	}
	if payload.SkippedImages != 1 {
		t.Errorf("skipped = %d, want 1", payload.SkippedImages)
	}
	// Text coverage continues after the cap
	if !strings.Contains(payload.Text, "c.jpg (skipped due to image limit)") {
		t.Errorf("capped image not noted in text:\n%s", payload.Text)
	}
}

func TestBuildEmbeddedPageImages(t *testing.T) {
	p := testPackager(2*1024*1024, 20)
	docs := []model.DocumentRecord{{
		Filename: "estimate.pdf",
		Type:     model.DocumentPDF,
		Pages: []model.Page{{
			PageNumber: 1,
			Text:       "Rear bumper replacement: $1,200",
			Images:     []model.PageImage{{Data: "AAAA", Ext: "jpeg"}},
		}},
	}}

	payload := p.Build("x", docs, []model.SourceType{model.SourceRepairEstimate})
	if len(payload.Images) != 1 {
		t.Fatalf("images = %d, want 1", len(payload.Images))
	}
	if payload.Images[0].URL != "data:image/jpeg;base64,AAAA" {
		t.Errorf("URL = %q", payload.Images[0].URL)
	}
}

func TestBuildPerPageAndPerDocumentCaps(t *testing.T) {
	images := func(n int) []model.PageImage {
		out := make([]model.PageImage, n)
		for i := range out {
			out[i] = model.PageImage{Data: "AAAA"}
		}
		return out
	}
	p := New(
		model.ImageConfig{MaxBytes: 2 * 1024 * 1024, MaxPerPage: 2, MaxPerDocument: 3},
		model.LimitConfig{MaxImagesPerRequest: 20},
		nil,
	)
	docs := []model.DocumentRecord{{
		Filename: "report.pdf",
		Type:     model.DocumentPDF,
		Pages: []model.Page{
			{PageNumber: 1, Text: "p1", Images: images(4)}, // capped at 2
			{PageNumber: 2, Text: "p2", Images: images(4)}, // capped at 1 by the doc cap
		},
	}}

	payload := p.Build("x", docs, []model.SourceType{model.SourcePolice})
	if len(payload.Images) != 3 {
		t.Fatalf("images = %d, want 3 (2 from page 1, 1 from page 2)", len(payload.Images))
	}
	if payload.SkippedImages != 5 {
		t.Errorf("skipped = %d, want 5", payload.SkippedImages)
	}
}

func TestSplitDataURI(t *testing.T) {
	tests := []struct {
		data, hint string
		wantB64    string
		wantMime   string
		wantOK     bool
	}{
		{"data:image/jpeg;base64,XYZ", "", "XYZ", "jpeg", true},
		{"data:image/png,XYZ", "", "XYZ", "png", true},
		{"XYZ", "gif", "XYZ", "gif", true},
		{"XYZ", "", "XYZ", "png", true},
		{"data:text/plain;base64,XYZ", "webp", "XYZ", "webp", true},
		{"data:nocomma", "", "", "", false},
	}
	for _, tt := range tests {
		b64, mime, ok := splitDataURI(tt.data, tt.hint)
		if b64 != tt.wantB64 || mime != tt.wantMime || ok != tt.wantOK {
			t.Errorf("splitDataURI(%q, %q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.data, tt.hint, b64, mime, ok, tt.wantB64, tt.wantMime, tt.wantOK)
		}
	}
}
