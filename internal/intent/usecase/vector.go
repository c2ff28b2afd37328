package usecase

import (
	"context"
	"errors"

	"university-intent-service/internal/intent/repository"
	"university-intent-service/internal/model"
)

// errVectorDisabled marks a deployment without an embedding key; the
// orchestrator treats it like any other vector failure.
var errVectorDisabled = errors.New("vector fallback is not configured")

// matchVector classifies the query by nearest labeled examples. Hits
// are grouped by intent keeping the best similarity per intent; the
// globally best intent wins. An empty index is a positive
// low-confidence fallback result, not an error and not an absence.
// Dependency errors propagate; the caller degrades to rule-only.
func (uc *implUseCase) matchVector(ctx context.Context, table *ruleTable, query string) (model.DetectionResult, error) {
	if uc.vectorRepo == nil {
		return model.DetectionResult{}, errVectorDisabled
	}

	hits, err := uc.vectorRepo.SearchExamples(ctx, repository.SearchExamplesOptions{
		Query: query,
		TopK:  uc.cfg.VectorTopK,
	})
	if err != nil {
		return model.DetectionResult{}, err
	}

	if len(hits) == 0 {
		return uc.fallbackResult(table, uc.cfg.EmptyIndexConfidence, model.MethodVector), nil
	}

	best := make(map[string]repository.ExampleHit, len(hits))
	for _, hit := range hits {
		if prev, ok := best[hit.IntentID]; !ok || hit.Score > prev.Score {
			best[hit.IntentID] = hit
		}
	}

	var winner repository.ExampleHit
	found := false
	for _, hit := range best {
		if !found || hit.Score > winner.Score {
			winner = hit
			found = true
		}
	}

	return model.DetectionResult{
		IntentID:   winner.IntentID,
		Routing:    winner.Routing,
		Tools:      winner.Tools,
		Confidence: model.ClampConfidence(winner.Score),
		Method:     model.MethodVector,
	}, nil
}
