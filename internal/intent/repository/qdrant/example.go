// Package qdrant implements the example vector repository on top of a
// Qdrant collection, with Voyage AI providing the embeddings.
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"university-intent-service/internal/intent/repository"
	"university-intent-service/internal/model"
	pkgLog "university-intent-service/pkg/log"
	pkgQdrant "university-intent-service/pkg/qdrant"
	"university-intent-service/pkg/vitext"
	"university-intent-service/pkg/voyage"
)

// embedBatchSize bounds one Voyage request; the API caps batch size at 128.
const embedBatchSize = 64

type implRepository struct {
	client         *pkgQdrant.Client
	embedder       voyage.IVoyage
	collectionName string
	vectorSize     int
	l              pkgLog.Logger
}

// New creates a vector repository over the given Qdrant collection.
func New(client *pkgQdrant.Client, embedder voyage.IVoyage, collectionName string, vectorSize int, l pkgLog.Logger) repository.VectorRepository {
	return &implRepository{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     vectorSize,
		l:              l,
	}
}

// SearchExamples embeds the raw query and returns its nearest labeled
// examples. The raw text is embedded, not the normalized form: the
// embedding model handles diacritics and casing on its own.
func (r *implRepository) SearchExamples(ctx context.Context, opt repository.SearchExamplesOptions) ([]repository.ExampleHit, error) {
	vector, err := r.embedder.EmbedOne(ctx, opt.Query, voyage.InputTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	resp, err := r.client.SearchPoints(ctx, r.collectionName, pkgQdrant.SearchRequest{
		Vector:      vector,
		Limit:       opt.TopK,
		WithPayload: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search examples: %w", err)
	}

	hits := make([]repository.ExampleHit, 0, len(resp.Result))
	for _, point := range resp.Result {
		hit, ok := hitFromPayload(point)
		if !ok {
			r.l.Warnf(ctx, "qdrant: skipping point %v with malformed payload", point.ID)
			continue
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// UpsertExamples embeds the example texts in batches and writes them to
// the collection. Point IDs are derived from the example text so that
// re-ingesting the same payload overwrites rather than duplicates.
func (r *implRepository) UpsertExamples(ctx context.Context, examples []model.IntentExample) error {
	for start := 0; start < len(examples); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(examples) {
			end = len(examples)
		}
		batch := examples[start:end]

		texts := make([]string, len(batch))
		for i, ex := range batch {
			texts[i] = ex.Text
		}

		vectors, err := r.embedder.Embed(ctx, texts, voyage.InputTypeDocument)
		if err != nil {
			return fmt.Errorf("failed to embed examples batch %d-%d: %w", start, end, err)
		}

		points := make([]pkgQdrant.Point, len(batch))
		for i, ex := range batch {
			points[i] = pkgQdrant.Point{
				ID:     PointID(ex),
				Vector: vectors[i],
				Payload: map[string]any{
					"intent_id": ex.IntentID,
					"routing":   string(ex.Routing),
					"tools":     ex.Tools,
					"text":      ex.Text,
					// Keywords make the points searchable by eye in the
					// Qdrant console when debugging misroutes.
					"keywords": vitext.ExtractKeywords(ex.Text, 8),
				},
			}
		}

		if err := r.client.UpsertPoints(ctx, r.collectionName, pkgQdrant.UpsertPointsRequest{Points: points}); err != nil {
			return fmt.Errorf("failed to upsert examples batch %d-%d: %w", start, end, err)
		}

		r.l.Infof(ctx, "qdrant: upserted %d example points (%d/%d)", len(points), end, len(examples))
	}
	return nil
}

// EnsureCollection creates the collection if it does not exist yet.
func (r *implRepository) EnsureCollection(ctx context.Context) error {
	exists, err := r.client.CollectionExists(ctx, r.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", r.collectionName, err)
	}
	if exists {
		return nil
	}

	r.l.Infof(ctx, "qdrant: creating collection %s (size=%d)", r.collectionName, r.vectorSize)
	return r.client.CreateCollection(ctx, pkgQdrant.CreateCollectionRequest{
		Name: r.collectionName,
		Vectors: pkgQdrant.VectorConfig{
			Size:     r.vectorSize,
			Distance: "Cosine",
		},
	})
}

// PointID derives a stable UUID for an example from its intent and text.
func PointID(ex model.IntentExample) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(ex.IntentID+"|"+ex.Text)).String()
}

func hitFromPayload(point pkgQdrant.ScoredPoint) (repository.ExampleHit, bool) {
	intentID, ok := point.Payload["intent_id"].(string)
	if !ok || intentID == "" {
		return repository.ExampleHit{}, false
	}
	routing, ok := point.Payload["routing"].(string)
	if !ok || !model.Routing(routing).Valid() {
		return repository.ExampleHit{}, false
	}

	// JSON payloads decode arrays as []any.
	var tools []string
	if rawTools, ok := point.Payload["tools"].([]any); ok {
		for _, t := range rawTools {
			if s, ok := t.(string); ok {
				tools = append(tools, s)
			}
		}
	}

	return repository.ExampleHit{
		IntentID: intentID,
		Routing:  model.Routing(routing),
		Tools:    tools,
		Score:    point.Score,
	}, true
}
