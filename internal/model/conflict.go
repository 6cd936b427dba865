package model

// Severity grades the impact of a conflict on claim assessment
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ValueDetail describes one side of a conflict: the value, the sources that
// back it, and the source-text snippets that evidence it. Snippets must be
// real excerpts from the fact matrix whenever possible; when the model omits
// them the detector backfills verified ones.
type ValueDetail struct {
	Value          string       `json:"value"`
	Sources        []SourceType `json:"sources"`
	SourceSnippets []string     `json:"source_snippets"`
}

// Conflict is a detected contradiction across two or more facts
type Conflict struct {
	FactDescription    string       `json:"fact_description"`
	Sources            []SourceType `json:"sources"`
	ConflictingValues  []string     `json:"conflicting_values"`
	ConflictType       string       `json:"conflict_type"`
	Severity           Severity     `json:"severity"`
	Explanation        string       `json:"explanation"`
	RecommendedVersion string       `json:"recommended_version"`
	Evidence           string       `json:"evidence"`
	ValueDetails       []ValueDetail `json:"value_details"`
}

// ConflictSet is the structured record the conflict round-trip returns
type ConflictSet struct {
	Conflicts []Conflict `json:"conflicts"`
}
