package repository

import (
	"context"

	"university-intent-service/internal/model"
)

// RuleSet is the immutable rule/example snapshot loaded at startup.
type RuleSet struct {
	Version          string
	FallbackIntentID string
	Rules            []model.IntentRule
	Examples         []model.IntentExample
}

// RuleByID returns the rule for an intent id, if present.
func (rs RuleSet) RuleByID(intentID string) (model.IntentRule, bool) {
	for _, r := range rs.Rules {
		if r.IntentID == intentID {
			return r, true
		}
	}
	return model.IntentRule{}, false
}

// RuleRepository loads the rule/example configuration payload.
type RuleRepository interface {
	Load(ctx context.Context) (RuleSet, error)
}

// ExampleHit is one labeled example returned by nearest-neighbor search.
type ExampleHit struct {
	IntentID string
	Routing  model.Routing
	Tools    []string
	Score    float64
}

// SearchExamplesOptions defines vector search parameters.
type SearchExamplesOptions struct {
	Query string // Raw (non-normalized) user query
	TopK  int
}

// VectorRepository is the nearest-neighbor index of labeled example
// utterances. Search errors are reported to the caller, which applies
// its own degradation policy.
type VectorRepository interface {
	SearchExamples(ctx context.Context, opt SearchExamplesOptions) ([]ExampleHit, error)
	UpsertExamples(ctx context.Context, examples []model.IntentExample) error
	EnsureCollection(ctx context.Context) error
}

// ResultCache stores recent detection results keyed on the normalized
// query. A miss is (zero value, false, nil).
type ResultCache interface {
	Get(ctx context.Context, key string) (model.DetectionResult, bool, error)
	Set(ctx context.Context, key string, result model.DetectionResult) error
}
