package usecase

import (
	"regexp"

	"university-intent-service/internal/model"
)

// compiledRule is an IntentRule with its matchers prepared for the hot
// path: keywords lowercased, patterns compiled case-insensitive.
type compiledRule struct {
	rule     model.IntentRule
	keywords []string
	negative []string
	patterns []*regexp.Regexp
}

// ruleTable is an immutable rule snapshot. Detection reads it through
// an atomic pointer so a hot reload never blocks in-flight calls.
type ruleTable struct {
	version  string
	rules    []compiledRule
	fallback model.IntentRule
}

// matchCandidate is the per-query score of one intent during rule
// evaluation. Discarded after the call.
type matchCandidate struct {
	rule   model.IntentRule
	score  float64
	offset int // earliest match position, in runes
}
