package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"university-intent-service/config"
	"university-intent-service/internal/intent"
	"university-intent-service/internal/intent/repository"
	"university-intent-service/internal/model"
	pkgLog "university-intent-service/pkg/log"
)

type implUseCase struct {
	l          pkgLog.Logger
	cfg        config.DetectionConfig
	ruleRepo   repository.RuleRepository
	vectorRepo repository.VectorRepository
	cache      repository.ResultCache

	table atomic.Pointer[ruleTable]
	ready atomic.Bool
}

// New creates the intent detection UseCase and loads the rule table.
// A rule load failure is a configuration error and aborts startup.
// The cache may be nil to disable result caching.
func New(
	ctx context.Context,
	l pkgLog.Logger,
	cfg config.DetectionConfig,
	ruleRepo repository.RuleRepository,
	vectorRepo repository.VectorRepository,
	cache repository.ResultCache,
) (*implUseCase, error) {
	uc := &implUseCase{
		l:          l,
		cfg:        cfg,
		ruleRepo:   ruleRepo,
		vectorRepo: vectorRepo,
		cache:      cache,
	}
	if err := uc.ReloadRules(ctx); err != nil {
		return nil, err
	}
	return uc, nil
}

// IsReady reports whether the rule table has finished loading.
func (uc *implUseCase) IsReady() bool {
	return uc.ready.Load()
}

// ReloadRules loads and compiles the rule payload, then swaps it in
// atomically. On error the previous table stays active.
func (uc *implUseCase) ReloadRules(ctx context.Context) error {
	rs, err := uc.ruleRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	table, err := uc.compile(rs)
	if err != nil {
		return err
	}

	uc.table.Store(table)
	uc.ready.Store(true)
	uc.l.Infof(ctx, "ReloadRules: %d rules active, fallback=%s (version %s)",
		len(table.rules), table.fallback.IntentID, table.version)
	return nil
}

func (uc *implUseCase) compile(rs repository.RuleSet) (*ruleTable, error) {
	table := &ruleTable{
		version: rs.Version,
		rules:   make([]compiledRule, 0, len(rs.Rules)),
	}

	for _, rule := range rs.Rules {
		cr := compiledRule{rule: rule}
		for _, kw := range rule.Keywords {
			cr.keywords = append(cr.keywords, strings.ToLower(kw))
		}
		for _, kw := range rule.NegativeKeywords {
			cr.negative = append(cr.negative, strings.ToLower(kw))
		}
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, fmt.Errorf("intent %s has invalid pattern %q: %w", rule.IntentID, pattern, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		table.rules = append(table.rules, cr)
	}

	fallbackID := rs.FallbackIntentID
	if uc.cfg.FallbackIntentID != "" {
		fallbackID = uc.cfg.FallbackIntentID
	}
	fallback, ok := rs.RuleByID(fallbackID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", intent.ErrMissingFallback, fallbackID)
	}
	table.fallback = fallback

	return table, nil
}

// fallbackResult builds a DetectionResult for the designated fallback
// intent at the given confidence.
func (uc *implUseCase) fallbackResult(table *ruleTable, confidence float64, method model.DetectionMethod) model.DetectionResult {
	return model.DetectionResult{
		IntentID:   table.fallback.IntentID,
		Routing:    table.fallback.Routing,
		Tools:      table.fallback.Tools,
		Confidence: model.ClampConfidence(confidence),
		Method:     method,
	}
}
