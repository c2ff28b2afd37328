package model

// Routing is the downstream retrieval strategy associated with an intent.
type Routing string

const (
	RoutingRAG      Routing = "rag"
	RoutingDatabase Routing = "database"
	RoutingHybrid   Routing = "hybrid"
)

// Valid reports whether the routing value is one of the known strategies.
func (r Routing) Valid() bool {
	switch r {
	case RoutingRAG, RoutingDatabase, RoutingHybrid:
		return true
	}
	return false
}

// DetectionMethod identifies which detection signal produced a result.
type DetectionMethod string

const (
	MethodRule     DetectionMethod = "rule"
	MethodVector   DetectionMethod = "vector"
	MethodHybrid   DetectionMethod = "hybrid"
	MethodFallback DetectionMethod = "fallback"
)

// IntentRule is one deterministic matching rule for an intent.
// Rules are loaded once at startup and never mutated afterwards.
type IntentRule struct {
	IntentID         string   `json:"intent_id"`
	Routing          Routing  `json:"routing"`
	Tools            []string `json:"tools"`
	Keywords         []string `json:"keywords"`
	Patterns         []string `json:"patterns"`
	NegativeKeywords []string `json:"negative_keywords,omitempty"`
	Weight           float64  `json:"weight"`
	Description      string   `json:"description,omitempty"`
}

// IntentExample is one labeled utterance; source material for the
// vector index. Many examples map to one intent.
type IntentExample struct {
	IntentID string   `json:"intent_id"`
	Routing  Routing  `json:"routing"`
	Tools    []string `json:"tools"`
	Text     string   `json:"text"`
}

// DetectionResult is the outcome of a single detection call.
type DetectionResult struct {
	IntentID   string          `json:"intent_id"`
	Routing    Routing         `json:"routing"`
	Tools      []string        `json:"tools"`
	Confidence float64         `json:"confidence"`
	Method     DetectionMethod `json:"method"`
}

// ClampConfidence bounds a confidence score to [0, 1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
