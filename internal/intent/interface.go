package intent

import (
	"context"

	"university-intent-service/internal/model"
)

// UseCase is the public surface of the intent detection engine.
type UseCase interface {
	// DetectIntent classifies a free-text query into one of the loaded
	// intents. It never returns an error: every failure mode resolves
	// to a valid low-confidence fallback result.
	DetectIntent(ctx context.Context, query string) model.DetectionResult

	// IsReady reports whether rule/example data has finished loading.
	IsReady() bool

	// ReloadRules re-reads the rule source and atomically swaps the
	// rule snapshot. Not part of the detection path.
	ReloadRules(ctx context.Context) error
}
