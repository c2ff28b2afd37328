package usecase

import (
	"sort"
	"strings"
	"unicode/utf8"

	"university-intent-service/internal/model"
)

// noMatch marks a candidate whose offset was never set. Keeps unset
// offsets sorting after every real hit.
const noMatch = int(^uint(0) >> 1)

// matchRules evaluates every rule against the query and returns the
// winning candidate as a rule result, or nil when nothing scored.
func (uc *implUseCase) matchRules(table *ruleTable, original, normalized string) *model.DetectionResult {
	lowerOriginal := strings.ToLower(original)

	var candidates []matchCandidate
	for _, cr := range table.rules {
		cand, ok := uc.scoreRule(cr, lowerOriginal, normalized)
		if !ok {
			continue
		}
		cand.score = model.ClampConfidence(applyBoosts(boostTable, cr.rule.IntentID, normalized, cand.score))
		if cand.score > 0 {
			candidates = append(candidates, cand)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	winner := uc.pickWinner(candidates)
	return &model.DetectionResult{
		IntentID:   winner.rule.IntentID,
		Routing:    winner.rule.Routing,
		Tools:      winner.rule.Tools,
		Confidence: model.ClampConfidence(winner.score),
		Method:     model.MethodRule,
	}
}

// scoreRule computes the weighted keyword/pattern score of one rule and
// the earliest match position. A negative keyword hit rejects the rule
// outright.
func (uc *implUseCase) scoreRule(cr compiledRule, lowerOriginal, normalized string) (matchCandidate, bool) {
	for _, kw := range cr.negative {
		if strings.Contains(normalized, kw) {
			return matchCandidate{}, false
		}
	}

	cand := matchCandidate{rule: cr.rule, offset: noMatch}

	for _, kw := range cr.keywords {
		if idx := strings.Index(normalized, kw); idx >= 0 {
			cand.score += uc.cfg.KeywordWeight * cr.rule.Weight
			cand.offset = minOffset(cand.offset, runeOffset(normalized, idx))
		}
	}

	// Patterns run against both forms: the raw query catches
	// diacritics the normalizer does not know about, the normalized
	// form catches the variants it rewrote.
	for _, re := range cr.patterns {
		matched := false
		if loc := re.FindStringIndex(normalized); loc != nil {
			matched = true
			cand.offset = minOffset(cand.offset, runeOffset(normalized, loc[0]))
		} else if loc := re.FindStringIndex(lowerOriginal); loc != nil {
			matched = true
			cand.offset = minOffset(cand.offset, runeOffset(lowerOriginal, loc[0]))
		}
		if matched {
			cand.score += uc.cfg.PatternWeight * cr.rule.Weight
		}
	}

	if cand.score == 0 {
		return matchCandidate{}, false
	}
	cand.score = model.ClampConfidence(cand.score)
	return cand, true
}

// pickWinner resolves multi-intent ambiguity. Earliest match position
// wins when the gap to the runner-up exceeds the configured distance
// and the early candidate scored high enough; otherwise the highest
// score wins.
func (uc *implUseCase) pickWinner(candidates []matchCandidate) matchCandidate {
	if len(candidates) == 1 {
		return candidates[0]
	}

	byScore := make([]matchCandidate, len(candidates))
	copy(byScore, candidates)
	sort.SliceStable(byScore, func(i, j int) bool {
		return byScore[i].score > byScore[j].score
	})

	byOffset := make([]matchCandidate, len(candidates))
	copy(byOffset, candidates)
	sort.SliceStable(byOffset, func(i, j int) bool {
		if byOffset[i].offset != byOffset[j].offset {
			return byOffset[i].offset < byOffset[j].offset
		}
		return byOffset[i].score > byOffset[j].score
	})

	first := byOffset[0]
	if byOffset[1].offset-first.offset > uc.cfg.OffsetGap && first.score >= uc.cfg.OffsetMinScore {
		return first
	}
	return byScore[0]
}

func minOffset(current, candidate int) int {
	if candidate < current {
		return candidate
	}
	return current
}

// runeOffset converts a byte index into a rune position. Offsets are
// compared in runes so the distance threshold means the same thing for
// Vietnamese and ASCII text.
func runeOffset(s string, byteIdx int) int {
	return utf8.RuneCountInString(s[:byteIdx])
}
