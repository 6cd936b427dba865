package model

// DocumentType identifies the format of an ingested claim document
type DocumentType string

const (
	DocumentPDF   DocumentType = "pdf"
	DocumentImage DocumentType = "image"
	DocumentAudio DocumentType = "audio"
)

// SourceType classifies which party or artifact a document (or fact) came from
type SourceType string

const (
	SourceFNOL           SourceType = "fnol"            // First Notice of Loss
	SourceClaimant       SourceType = "claimant"        // Claimant or witness statement
	SourceOtherDriver    SourceType = "other_driver"    // Other driver statement
	SourcePolice         SourceType = "police"          // Police report
	SourceRepairEstimate SourceType = "repair_estimate" // Repair estimate / damage assessment
	SourcePolicy         SourceType = "policy"          // Insurance policy document
	SourceUnknown        SourceType = "unknown"
)

// PageImage is one embedded image extracted from a document page.
// Data is either a full data-URI or a bare base64 string; Ext carries
// the format hint used when the data-URI lacks a MIME type.
type PageImage struct {
	Data string `json:"data"`
	Ext  string `json:"ext,omitempty"`
}

// Page is one page (or transcription chunk) of an extracted document
type Page struct {
	PageNumber int         `json:"page_number"`
	Text       string      `json:"text"`
	Images     []PageImage `json:"images,omitempty"`
}

// DocumentRecord is one uploaded file after raw extraction by the external
// PDF/image/audio extractors. The record is read-only to this pipeline.
type DocumentRecord struct {
	Filename         string       `json:"filename"`
	OriginalFilename string       `json:"originalFilename,omitempty"`
	ExpectedFileName string       `json:"expectedFileName,omitempty"` // Caller-supplied alias used for provenance matching
	Type             DocumentType `json:"type"`

	// Pages holds page text and embedded images for pdf records, and
	// transcription chunks (optionally with associated page images) for
	// audio records. Empty for standalone images.
	Pages []Page `json:"pages,omitempty"`

	// Transcription is the flattened audio transcript, when available
	Transcription string `json:"transcription,omitempty"`

	// Data is the base64 payload for standalone image records
	Data   string `json:"data,omitempty"`
	Format string `json:"format,omitempty"`
}

// Name returns the best available display name for the record
func (d DocumentRecord) Name() string {
	if d.Filename != "" {
		return d.Filename
	}
	if d.OriginalFilename != "" {
		return d.OriginalFilename
	}
	return "Unknown"
}

// Alias returns the expectedFileName when set, falling back to the filename.
// Provenance matching runs against both.
func (d DocumentRecord) Alias() string {
	if d.ExpectedFileName != "" {
		return d.ExpectedFileName
	}
	return d.Name()
}
