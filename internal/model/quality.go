package model

// ConfidenceLevel is the coarse tier of a confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceVeryLow ConfidenceLevel = "very_low"
)

// Quality tells callers how much to trust a detection result and
// whether they should soften intent-based filtering downstream.
type Quality struct {
	IsReliable      bool            `json:"is_reliable"`
	NeedsRefinement bool            `json:"needs_refinement"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
}

// ClassifyConfidence maps a confidence score to its quality tier.
// Pure function over fixed thresholds; not used by the detection core.
func ClassifyConfidence(confidence float64) Quality {
	switch {
	case confidence >= 0.8:
		return Quality{IsReliable: true, ConfidenceLevel: ConfidenceHigh}
	case confidence >= 0.4:
		return Quality{IsReliable: true, ConfidenceLevel: ConfidenceMedium}
	case confidence >= 0.2:
		return Quality{NeedsRefinement: true, ConfidenceLevel: ConfidenceLow}
	default:
		return Quality{NeedsRefinement: true, ConfidenceLevel: ConfidenceVeryLow}
	}
}
