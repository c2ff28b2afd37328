package qdrant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"university-intent-service/internal/intent/repository"
	"university-intent-service/internal/model"
	pkgQdrant "university-intent-service/pkg/qdrant"
	"university-intent-service/pkg/voyage"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, args ...any)                    {}
func (nopLogger) Debugf(ctx context.Context, template string, args ...any)  {}
func (nopLogger) Info(ctx context.Context, args ...any)                     {}
func (nopLogger) Infof(ctx context.Context, template string, args ...any)   {}
func (nopLogger) Warn(ctx context.Context, args ...any)                     {}
func (nopLogger) Warnf(ctx context.Context, template string, args ...any)   {}
func (nopLogger) Error(ctx context.Context, args ...any)                    {}
func (nopLogger) Errorf(ctx context.Context, template string, args ...any)  {}
func (nopLogger) Fatal(ctx context.Context, args ...any)                    {}
func (nopLogger) Fatalf(ctx context.Context, template string, args ...any)  {}
func (nopLogger) DPanic(ctx context.Context, args ...any)                   {}
func (nopLogger) DPanicf(ctx context.Context, template string, args ...any) {}
func (nopLogger) Panic(ctx context.Context, args ...any)                    {}
func (nopLogger) Panicf(ctx context.Context, template string, args ...any)  {}

type fakeEmbedder struct {
	mu         sync.Mutex
	err        error
	inputTypes []voyage.InputType
	batches    [][]string
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string, inputType voyage.InputType) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.inputTypes = append(f.inputTypes, inputType)
	f.batches = append(f.batches, texts)

	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedOne(ctx context.Context, text string, inputType voyage.InputType) ([]float32, error) {
	embeddings, err := f.Embed(ctx, []string{text}, inputType)
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func TestSearchExamples(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/intents/points/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var req pkgQdrant.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad search request: %v", err)
		}
		if req.Limit != 3 || !req.WithPayload {
			t.Errorf("unexpected search params: limit=%d with_payload=%v", req.Limit, req.WithPayload)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{
					"id":    "p1",
					"score": 0.91,
					"payload": map[string]any{
						"intent_id": "tuition_inquiry",
						"routing":   "database",
						"tools":     []string{"tuition_lookup"},
						"text":      "Học phí bao nhiêu?",
					},
				},
				{
					"id":    "p2",
					"score": 0.55,
					"payload": map[string]any{
						// No intent_id: must be skipped, not surfaced.
						"routing": "rag",
					},
				},
			},
		})
	}))
	defer server.Close()

	embedder := &fakeEmbedder{}
	repo := New(pkgQdrant.NewClient(server.URL), embedder, "intents", 1024, nopLogger{})

	hits, err := repo.SearchExamples(ctx, repository.SearchExamplesOptions{Query: "Học phí FPT bao nhiêu?", TopK: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit after dropping malformed payload, got %d", len(hits))
	}
	if hits[0].IntentID != "tuition_inquiry" || hits[0].Routing != model.RoutingDatabase || hits[0].Score != 0.91 {
		t.Errorf("unexpected hit: %+v", hits[0])
	}
	if len(hits[0].Tools) != 1 || hits[0].Tools[0] != "tuition_lookup" {
		t.Errorf("unexpected tools: %v", hits[0].Tools)
	}

	if len(embedder.inputTypes) != 1 || embedder.inputTypes[0] != voyage.InputTypeQuery {
		t.Errorf("query must be embedded with input type %q, got %v", voyage.InputTypeQuery, embedder.inputTypes)
	}
}

func TestSearchExamplesEmbedError(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("quota exceeded")}
	repo := New(pkgQdrant.NewClient("http://127.0.0.1:0"), embedder, "intents", 1024, nopLogger{})

	_, err := repo.SearchExamples(context.Background(), repository.SearchExamplesOptions{Query: "x", TopK: 3})
	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestUpsertExamples(t *testing.T) {
	var (
		mu       sync.Mutex
		upserted []pkgQdrant.Point
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/collections/intents/points" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req pkgQdrant.UpsertPointsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad upsert request: %v", err)
		}
		mu.Lock()
		upserted = append(upserted, req.Points...)
		mu.Unlock()
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	embedder := &fakeEmbedder{}
	repo := New(pkgQdrant.NewClient(server.URL), embedder, "intents", 1024, nopLogger{})

	examples := []model.IntentExample{
		{IntentID: "tuition_inquiry", Routing: model.RoutingDatabase, Tools: []string{"tuition_lookup"}, Text: "Học phí bao nhiêu?"},
		{IntentID: "campus_facilities", Routing: model.RoutingRAG, Tools: []string{"knowledge_search"}, Text: "Ký túc xá thế nào?"},
	}
	if err := repo.UpsertExamples(context.Background(), examples); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(upserted) != 2 {
		t.Fatalf("expected 2 points, got %d", len(upserted))
	}
	if embedder.inputTypes[0] != voyage.InputTypeDocument {
		t.Errorf("examples must be embedded with input type %q, got %q", voyage.InputTypeDocument, embedder.inputTypes[0])
	}

	// Stable IDs: re-ingesting the same example must hit the same point.
	if upserted[0].ID != PointID(examples[0]) {
		t.Errorf("expected deterministic point id %v, got %v", PointID(examples[0]), upserted[0].ID)
	}
	if PointID(examples[0]) == PointID(examples[1]) {
		t.Error("different examples must not collide on point id")
	}
}

func TestEnsureCollection(t *testing.T) {
	t.Run("Already Exists", func(t *testing.T) {
		var created bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet && r.URL.Path == "/collections/intents/exists":
				w.Write([]byte(`{"result":{"exists":true}}`))
			case r.Method == http.MethodPut && r.URL.Path == "/collections/intents":
				created = true
				w.Write([]byte(`{"status":"ok"}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		repo := New(pkgQdrant.NewClient(server.URL), &fakeEmbedder{}, "intents", 1024, nopLogger{})
		if err := repo.EnsureCollection(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created {
			t.Error("must not recreate an existing collection")
		}
	})

	t.Run("Creates Missing Collection", func(t *testing.T) {
		var createReq pkgQdrant.CreateCollectionRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet && r.URL.Path == "/collections/intents/exists":
				w.Write([]byte(`{"result":{"exists":false}}`))
			case r.Method == http.MethodPut && r.URL.Path == "/collections/intents":
				json.NewDecoder(r.Body).Decode(&createReq)
				w.Write([]byte(`{"status":"ok"}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		repo := New(pkgQdrant.NewClient(server.URL), &fakeEmbedder{}, "intents", 1024, nopLogger{})
		if err := repo.EnsureCollection(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if createReq.Vectors.Size != 1024 || createReq.Vectors.Distance != "Cosine" {
			t.Errorf("unexpected vector config: %+v", createReq.Vectors)
		}
	})
}
