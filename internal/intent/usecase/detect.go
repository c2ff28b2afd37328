package usecase

import (
	"context"

	"university-intent-service/internal/model"
	"university-intent-service/pkg/vitext"
)

// DetectIntent classifies a query. It never returns an error: every
// failure inside the pipeline resolves to a valid low-confidence
// fallback result.
func (uc *implUseCase) DetectIntent(ctx context.Context, query string) (result model.DetectionResult) {
	table := uc.table.Load()

	defer func() {
		if r := recover(); r != nil {
			uc.l.Errorf(ctx, "DetectIntent: recovered from panic: %v", r)
			result = uc.fallbackResult(table, uc.cfg.PanicConfidence, model.MethodRule)
		}
	}()

	normalized := vitext.Normalize(query)

	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, normalized)
		if err != nil {
			uc.l.Warnf(ctx, "DetectIntent: cache read failed: %v", err)
		} else if ok {
			uc.l.Debugf(ctx, "DetectIntent: cache hit for %q", normalized)
			return cached
		}
	}

	result = uc.detect(ctx, table, query, normalized)

	// Only confident results are worth pinning: low-confidence
	// fallbacks are cheap to recompute and may improve after a rule
	// reload or index refresh.
	if uc.cache != nil && result.Confidence >= uc.cfg.CacheMinConfidence {
		if err := uc.cache.Set(ctx, normalized, result); err != nil {
			uc.l.Warnf(ctx, "DetectIntent: cache write failed: %v", err)
		}
	}

	uc.l.Infof(ctx, "DetectIntent: query=%q lang=%s intent=%s confidence=%.2f method=%s",
		query, vitext.DetectLanguage(query), result.IntentID, result.Confidence, result.Method)
	return result
}

// detect runs the decision policy: rule matcher first, an irrelevance
// gate below the medium threshold, the vector fallback in the medium
// band, and blending when both signals agree.
func (uc *implUseCase) detect(ctx context.Context, table *ruleTable, query, normalized string) model.DetectionResult {
	ruleResult := uc.matchRules(table, query, normalized)

	// Fast path: a confident rule match skips the vector call.
	if ruleResult != nil && ruleResult.Confidence >= uc.cfg.HighConfidence {
		return *ruleResult
	}

	if ruleResult == nil || ruleResult.Confidence < uc.cfg.MediumConfidence {
		if vitext.IsIrrelevant(normalized) {
			return uc.fallbackResult(table, uc.cfg.IrrelevantConfidence, model.MethodRule)
		}
		return uc.fallbackResult(table, uc.cfg.NoMatchConfidence, model.MethodRule)
	}

	// Medium band: consult the vector index under its own timeout so a
	// slow dependency cannot stall the whole call.
	vctx, cancel := context.WithTimeout(ctx, uc.cfg.VectorTimeout)
	defer cancel()

	vectorResult, err := uc.matchVector(vctx, table, query)
	if err != nil {
		uc.l.Warnf(ctx, "DetectIntent: vector fallback failed, degrading to rule result: %v", err)
		return *ruleResult
	}

	if vectorResult.IntentID == ruleResult.IntentID {
		blended := uc.cfg.BlendRuleCoeff*ruleResult.Confidence +
			uc.cfg.BlendVectorCoeff*vectorResult.Confidence +
			uc.cfg.BlendAgreementBonus
		merged := *ruleResult
		merged.Confidence = model.ClampConfidence(blended)
		merged.Method = model.MethodHybrid
		return merged
	}

	// Signals disagree: trust whichever is more confident, keeping its
	// own method so callers can see which side won.
	if vectorResult.Confidence > ruleResult.Confidence {
		return vectorResult
	}
	return *ruleResult
}
