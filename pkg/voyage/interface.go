package voyage

import (
	"context"
)

// IVoyage defines the interface for Voyage AI embeddings.
// Implementations are safe for concurrent use.
type IVoyage interface {
	Embed(ctx context.Context, texts []string, inputType InputType) ([][]float32, error)
	EmbedOne(ctx context.Context, text string, inputType InputType) ([]float32, error)
}
