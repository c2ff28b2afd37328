package intent

import "errors"

// Configuration errors. These are the only errors allowed to escape
// the detection engine, and only at load time.
var (
	ErrEmptyRuleSet    = errors.New("rule set is empty")
	ErrMissingFallback = errors.New("fallback intent is missing from rule set")
	ErrEmptyTools      = errors.New("intent rule has no tools")
	ErrInvalidRouting  = errors.New("intent rule has unknown routing")
	ErrInvalidWeight   = errors.New("intent rule weight must be positive")
	ErrNoMatchers      = errors.New("intent rule has neither keywords nor patterns")
	ErrUnknownIntent   = errors.New("example references an unknown intent")
	ErrDuplicateIntent = errors.New("duplicate intent id in rule set")
)
