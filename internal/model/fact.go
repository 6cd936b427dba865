package model

// Category classifies the kind of accident fact extracted from a document
type Category string

const (
	CategoryMovement    Category = "movement"    // Pre-impact vehicle actions, maneuvers
	CategoryEnvironment Category = "environment" // Weather, lighting, road type, visibility
	CategoryCompliance  Category = "compliance"  // Traffic control, right-of-way behavior
	CategoryImpact      Category = "impact"      // Point of impact on each vehicle
	CategoryLocation    Category = "location"    // Directions, positions, place descriptions
	CategoryTemporal    Category = "temporal"    // Timestamps and sequencing
)

// Fact is one atomic claim extracted from one document.
// SourceText is the grounding anchor: it must be a verbatim quote from the
// originating document. That invariant is enforced by prompt instruction
// only, never programmatically - a known trust boundary.
type Fact struct {
	SourceText      string     `json:"source_text"`
	ExtractedFact   string     `json:"extracted_fact"`
	Category        Category   `json:"category"`
	Confidence      float64    `json:"confidence"`
	Source          SourceType `json:"source"`
	IsImplied       bool       `json:"is_implied"`
	NormalizedValue string     `json:"normalized_value,omitempty"`
}

// FactSet is the structured record the extraction round-trip returns
type FactSet struct {
	Facts []Fact `json:"facts"`
}

// ExtractionResult is the pipeline's success output
type ExtractionResult struct {
	RunID     string     `json:"run_id"`
	Facts     []Fact     `json:"facts"`
	Conflicts []Conflict `json:"conflicts"`
}
