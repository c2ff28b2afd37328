package usecase

import (
	"strings"

	"university-intent-service/internal/model"
)

// boostRule is one priority heuristic: when the normalized query
// contains any AnyOf term and none of the NoneOf terms, Delta is added
// to the named intent's score. An empty IntentID applies to every
// intent. Rules run in table order and the score is clamped after each
// one, so later rules can override earlier ones.
type boostRule struct {
	IntentID string
	AnyOf    []string
	NoneOf   []string
	Delta    float64
}

var costTerms = []string{"học phí", "tiền", "chi phí", "giá", "trả góp", "fee", "tuition"}

var concreteTerms = []string{
	"học phí", "học bổng", "tuyển sinh", "ngành", "chuyên ngành",
	"trường", "đại học", "campus", "ký túc xá", "fpt",
	"việc làm", "tốt nghiệp",
}

// boostTable disambiguates intents that fire on the same query. Cost
// vocabulary pulls toward tuition and away from facilities; vague
// references without a concrete topic lose confidence.
var boostTable = []boostRule{
	{IntentID: "tuition_inquiry", AnyOf: costTerms, Delta: 0.15},
	{IntentID: "campus_facilities", AnyOf: costTerms, Delta: -0.10},
	{IntentID: "scholarship_info", AnyOf: []string{"học bổng", "scholarship", "miễn giảm"}, Delta: 0.15},
	{AnyOf: []string{"cái này", "cái đó", "này thì sao", "this", "that one"}, NoneOf: concreteTerms, Delta: -0.10},
}

// applyBoosts evaluates the table for one intent, in order.
func applyBoosts(table []boostRule, intentID, normalized string, score float64) float64 {
	for _, b := range table {
		if b.IntentID != "" && b.IntentID != intentID {
			continue
		}
		if !containsAny(normalized, b.AnyOf) {
			continue
		}
		if containsAny(normalized, b.NoneOf) {
			continue
		}
		score = model.ClampConfidence(score + b.Delta)
	}
	return score
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
