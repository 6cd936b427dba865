package model

// LiabilitySignal is one legal/traffic-control signal in the liability grid
type LiabilitySignal struct {
	SignalType        string   `json:"signal_type"`
	EvidenceText      string   `json:"evidence_text"`
	ImpactOnLiability string   `json:"impact_on_liability"`
	SeverityScore     float64  `json:"severity_score"`
	RelatedFacts      []string `json:"related_facts"`
	Discrepancies     string   `json:"discrepancies"`
}

// SignalSet is the structured record of a liability-signal analysis
type SignalSet struct {
	Signals []LiabilitySignal `json:"signals"`
}

// TimelineEvent is one ordered step of a reconstructed accident timeline
type TimelineEvent struct {
	ID               string   `json:"id"`
	Description      string   `json:"description"`
	SupportedByFacts []string `json:"supported_by_facts"`
	Confidence       float64  `json:"confidence"`
	Notes            string   `json:"notes"`
}

// Timeline is a chronological reconstruction grounded in the fact matrix
type Timeline struct {
	Events       []TimelineEvent `json:"events"`
	OverallNotes string          `json:"overall_notes"`
}

// LiabilityRecommendation carries the recommended liability split.
// The two percentages are clamped to [0,100] and rescaled so they sum to 100.
type LiabilityRecommendation struct {
	ClaimantLiabilityPercent    int    `json:"claimant_liability_percent"`
	OtherDriverLiabilityPercent int    `json:"other_driver_liability_percent"`
	Reasoning                   string `json:"reasoning"`
	Uncertainties               string `json:"uncertainties"`
}

// ClaimRationale is the adjuster-facing rationale document
type ClaimRationale struct {
	Overview              string `json:"overview"`
	KeySignals            string `json:"key_signals"`
	LiabilityExplanation  string `json:"liability_explanation"`
	UncertaintiesAndLimits string `json:"uncertainties_and_limits"`
}

// EscalationPackage is the supervisor escalation packet
type EscalationPackage struct {
	CaseSummary             string   `json:"case_summary"`
	IssuesForReview         []string `json:"issues_for_review"`
	EscalationJustification string   `json:"escalation_justification"`
	OpenQuestions           []string `json:"open_questions"`
}

// EvidenceCheck is one component of the standard evidence package
type EvidenceCheck struct {
	Component     string   `json:"component"`
	IsPresent     bool     `json:"is_present"`
	Confidence    float64  `json:"confidence"`
	EvidenceFiles []string `json:"evidence_files"`
	Notes         string   `json:"notes"`
}

// MissingEvidence describes one gap in the evidence package
type MissingEvidence struct {
	EvidenceNeeded    string `json:"evidence_needed"`
	WhyItMatters      string `json:"why_it_matters"`
	SuggestedFollowUp string `json:"suggested_follow_up"`
	Priority          string `json:"priority"`
}

// EvidenceCompleteness is the result of an evidence-package completeness check
type EvidenceCompleteness struct {
	Checks          []EvidenceCheck   `json:"checks"`
	MissingEvidence []MissingEvidence `json:"missing_evidence"`
}

// Classification is the LLM document classifier's verdict
type Classification struct {
	DocumentType SourceType `json:"document_type"`
	Confidence   float64    `json:"confidence"`
	IsRelevant   bool       `json:"is_relevant"`
	Reasoning    string     `json:"reasoning,omitempty"`
}
