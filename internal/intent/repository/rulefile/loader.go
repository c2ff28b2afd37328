// Package rulefile loads the intent rule/example payload from a JSON
// file. Malformed payloads are configuration errors and abort service
// initialization: detection must never run on a partial rule table.
package rulefile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"university-intent-service/internal/intent"
	"university-intent-service/internal/intent/repository"
	"university-intent-service/internal/model"
	pkgLog "university-intent-service/pkg/log"
)

type payload struct {
	Version          string                `json:"version"`
	FallbackIntentID string                `json:"fallback_intent_id"`
	Rules            []model.IntentRule    `json:"rules"`
	Examples         []model.IntentExample `json:"examples"`
}

type implRepository struct {
	path string
	l    pkgLog.Logger
}

// New creates a rule repository reading from the given JSON file.
func New(path string, l pkgLog.Logger) repository.RuleRepository {
	return &implRepository{path: path, l: l}
}

// Load reads and validates the payload. Any structural problem is
// returned as an error wrapping one of the intent package sentinels.
func (r *implRepository) Load(ctx context.Context) (repository.RuleSet, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return repository.RuleSet{}, fmt.Errorf("failed to read rules file %s: %w", r.path, err)
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return repository.RuleSet{}, fmt.Errorf("invalid JSON in rules file %s: %w", r.path, err)
	}

	rs := repository.RuleSet{
		Version:          p.Version,
		FallbackIntentID: p.FallbackIntentID,
		Rules:            p.Rules,
		Examples:         p.Examples,
	}

	if err := validate(rs); err != nil {
		return repository.RuleSet{}, err
	}

	r.l.Infof(ctx, "rulefile: loaded %d rules, %d examples (version %s)",
		len(rs.Rules), len(rs.Examples), rs.Version)

	return rs, nil
}

func validate(rs repository.RuleSet) error {
	if len(rs.Rules) == 0 {
		return intent.ErrEmptyRuleSet
	}

	known := make(map[string]struct{}, len(rs.Rules))
	for _, rule := range rs.Rules {
		if _, dup := known[rule.IntentID]; dup {
			return fmt.Errorf("%w: %s", intent.ErrDuplicateIntent, rule.IntentID)
		}
		known[rule.IntentID] = struct{}{}

		if !rule.Routing.Valid() {
			return fmt.Errorf("%w: intent %s routing %q", intent.ErrInvalidRouting, rule.IntentID, rule.Routing)
		}
		if len(rule.Tools) == 0 {
			return fmt.Errorf("%w: intent %s", intent.ErrEmptyTools, rule.IntentID)
		}
		if rule.Weight <= 0 {
			return fmt.Errorf("%w: intent %s weight %v", intent.ErrInvalidWeight, rule.IntentID, rule.Weight)
		}
		if len(rule.Keywords) == 0 && len(rule.Patterns) == 0 {
			return fmt.Errorf("%w: intent %s", intent.ErrNoMatchers, rule.IntentID)
		}
		for _, pattern := range rule.Patterns {
			if _, err := regexp.Compile("(?i)" + pattern); err != nil {
				return fmt.Errorf("intent %s has invalid pattern %q: %w", rule.IntentID, pattern, err)
			}
		}
	}

	if rs.FallbackIntentID == "" {
		return intent.ErrMissingFallback
	}
	if _, ok := known[rs.FallbackIntentID]; !ok {
		return fmt.Errorf("%w: %s", intent.ErrMissingFallback, rs.FallbackIntentID)
	}

	for _, ex := range rs.Examples {
		if _, ok := known[ex.IntentID]; !ok {
			return fmt.Errorf("%w: %s (example %q)", intent.ErrUnknownIntent, ex.IntentID, ex.Text)
		}
	}

	return nil
}
