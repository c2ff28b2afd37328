package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"university-intent-service/internal/intent/repository"
	"university-intent-service/internal/model"
	"university-intent-service/pkg/vitext"
)

// mediumQuery lands in the medium confidence band: one keyword hit on
// campus_facilities, 0.4 * 1.2 = 0.48.
const mediumQuery = "Ký túc xá thế nào?"

func TestDetectIntentHighConfidenceFastPath(t *testing.T) {
	vectorRepo := &mockVectorRepo{}
	uc := newTestUseCase(vectorRepo, nil)

	got := uc.DetectIntent(context.Background(), "Học phí FPT 2025 bao nhiêu tiền?")

	if got.IntentID != "tuition_inquiry" {
		t.Errorf("expected tuition_inquiry, got %s", got.IntentID)
	}
	if got.Confidence < 0.8 {
		t.Errorf("expected confidence >= 0.8, got %v", got.Confidence)
	}
	if got.Method != model.MethodRule {
		t.Errorf("expected method rule, got %s", got.Method)
	}
	if vectorRepo.calls != 0 {
		t.Errorf("high-confidence rule result must not call the vector index, got %d calls", vectorRepo.calls)
	}
}

func TestDetectIntentIrrelevantQuery(t *testing.T) {
	uc := newTestUseCase(&mockVectorRepo{}, nil)

	got := uc.DetectIntent(context.Background(), "Hôm nay trời có mưa không?")

	if got.IntentID != "general_info" {
		t.Errorf("expected fallback intent, got %s", got.IntentID)
	}
	if got.Confidence != 0.05 {
		t.Errorf("expected confidence 0.05, got %v", got.Confidence)
	}
	if got.Method != model.MethodRule {
		t.Errorf("expected method rule, got %s", got.Method)
	}
}

func TestDetectIntentNoMatchNotIrrelevant(t *testing.T) {
	uc := newTestUseCase(&mockVectorRepo{}, nil)

	// No rule fires, no off-domain vocabulary either.
	got := uc.DetectIntent(context.Background(), "Cho mình hỏi một chút được không?")

	if got.IntentID != "general_info" {
		t.Errorf("expected fallback intent, got %s", got.IntentID)
	}
	if got.Confidence != 0.3 {
		t.Errorf("expected confidence 0.3, got %v", got.Confidence)
	}
}

func TestDetectIntentMediumBand(t *testing.T) {
	t.Run("Agreement Blends", func(t *testing.T) {
		vectorRepo := &mockVectorRepo{hits: []repository.ExampleHit{
			{IntentID: "campus_facilities", Routing: model.RoutingRAG, Tools: []string{"knowledge_search"}, Score: 0.9},
		}}
		uc := newTestUseCase(vectorRepo, nil)

		got := uc.DetectIntent(context.Background(), mediumQuery)

		if got.Method != model.MethodHybrid {
			t.Fatalf("expected method hybrid, got %s", got.Method)
		}
		want := 0.7*0.48 + 0.3*0.9 + 0.1
		if diff := got.Confidence - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("expected blended confidence %v, got %v", want, got.Confidence)
		}
		if got.IntentID != "campus_facilities" {
			t.Errorf("expected campus_facilities, got %s", got.IntentID)
		}
	})

	t.Run("Disagreement Vector Wins", func(t *testing.T) {
		vectorRepo := &mockVectorRepo{hits: []repository.ExampleHit{
			{IntentID: "tuition_inquiry", Routing: model.RoutingDatabase, Tools: []string{"tuition_lookup"}, Score: 0.9},
		}}
		uc := newTestUseCase(vectorRepo, nil)

		got := uc.DetectIntent(context.Background(), mediumQuery)

		if got.IntentID != "tuition_inquiry" || got.Method != model.MethodVector {
			t.Errorf("expected vector result to win, got %+v", got)
		}
		if got.Confidence != 0.9 {
			t.Errorf("expected vector confidence 0.9, got %v", got.Confidence)
		}
	})

	t.Run("Disagreement Rule Wins", func(t *testing.T) {
		vectorRepo := &mockVectorRepo{hits: []repository.ExampleHit{
			{IntentID: "tuition_inquiry", Routing: model.RoutingDatabase, Tools: []string{"tuition_lookup"}, Score: 0.2},
		}}
		uc := newTestUseCase(vectorRepo, nil)

		got := uc.DetectIntent(context.Background(), mediumQuery)

		if got.IntentID != "campus_facilities" || got.Method != model.MethodRule {
			t.Errorf("expected rule result to win, got %+v", got)
		}
	})

	t.Run("Vector Failure Degrades To Rule", func(t *testing.T) {
		vectorRepo := &mockVectorRepo{err: errors.New("qdrant unreachable")}
		uc := newTestUseCase(vectorRepo, nil)

		got := uc.DetectIntent(context.Background(), mediumQuery)

		if got.IntentID != "campus_facilities" || got.Method != model.MethodRule {
			t.Errorf("expected rule-only degradation, got %+v", got)
		}
		if diff := got.Confidence - 0.48; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("expected rule confidence 0.48, got %v", got.Confidence)
		}
	})

	t.Run("Empty Index Is Low Confidence Fallback Not Error", func(t *testing.T) {
		vectorRepo := &mockVectorRepo{hits: nil}
		uc := newTestUseCase(vectorRepo, nil)

		got := uc.DetectIntent(context.Background(), mediumQuery)

		// The empty-index fallback (0.2, general_info) disagrees with
		// the rule and loses on confidence.
		if got.IntentID != "campus_facilities" || got.Method != model.MethodRule {
			t.Errorf("expected rule result, got %+v", got)
		}
		if vectorRepo.calls != 1 {
			t.Errorf("expected one vector call, got %d", vectorRepo.calls)
		}
	})
}

func TestMatchVectorEmptyIndex(t *testing.T) {
	uc := newTestUseCase(&mockVectorRepo{hits: nil}, nil)

	got, err := uc.matchVector(context.Background(), uc.table.Load(), "anything")
	if err != nil {
		t.Fatalf("empty index must not be an error: %v", err)
	}
	if got.IntentID != "general_info" || got.Confidence != 0.2 || got.Method != model.MethodVector {
		t.Errorf("expected fallback at 0.2 with method vector, got %+v", got)
	}
}

func TestMatchVectorKeepsBestPerIntent(t *testing.T) {
	uc := newTestUseCase(&mockVectorRepo{hits: []repository.ExampleHit{
		{IntentID: "tuition_inquiry", Routing: model.RoutingDatabase, Tools: []string{"tuition_lookup"}, Score: 0.6},
		{IntentID: "campus_facilities", Routing: model.RoutingRAG, Tools: []string{"knowledge_search"}, Score: 0.85},
		{IntentID: "tuition_inquiry", Routing: model.RoutingDatabase, Tools: []string{"tuition_lookup"}, Score: 0.9},
	}}, nil)

	got, err := uc.matchVector(context.Background(), uc.table.Load(), "anything")
	if err != nil {
		t.Fatal(err)
	}
	if got.IntentID != "tuition_inquiry" || got.Confidence != 0.9 {
		t.Errorf("expected tuition_inquiry at 0.9, got %+v", got)
	}
}

func TestDetectIntentCaching(t *testing.T) {
	t.Run("Confident Result Is Cached", func(t *testing.T) {
		cache := newMockCache()
		vectorRepo := &mockVectorRepo{}
		uc := newTestUseCase(vectorRepo, cache)

		query := "Học phí FPT 2025 bao nhiêu tiền?"
		first := uc.DetectIntent(context.Background(), query)
		if cache.sets != 1 {
			t.Fatalf("expected one cache write, got %d", cache.sets)
		}

		second := uc.DetectIntent(context.Background(), query)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("cached result differs: %+v vs %+v", first, second)
		}
		if cache.sets != 1 {
			t.Errorf("cache hit must not rewrite, got %d writes", cache.sets)
		}
	})

	t.Run("Key Is The Normalized Query", func(t *testing.T) {
		cache := newMockCache()
		uc := newTestUseCase(&mockVectorRepo{}, cache)

		query := "Học   phí FPT 2025 bao nhiêu tiền??"
		uc.DetectIntent(context.Background(), query)

		if _, ok := cache.entries[vitext.Normalize(query)]; !ok {
			t.Errorf("expected cache entry keyed on normalized query, have keys %v", keysOf(cache.entries))
		}
	})

	t.Run("Low Confidence Is Not Cached", func(t *testing.T) {
		cache := newMockCache()
		uc := newTestUseCase(&mockVectorRepo{err: errors.New("down")}, cache)

		uc.DetectIntent(context.Background(), mediumQuery)
		if cache.sets != 0 {
			t.Errorf("medium-confidence result must not be cached, got %d writes", cache.sets)
		}
	})

	t.Run("Cache Errors Do Not Break Detection", func(t *testing.T) {
		cache := newMockCache()
		cache.getErr = errors.New("redis down")
		cache.setErr = errors.New("redis down")
		uc := newTestUseCase(&mockVectorRepo{}, cache)

		got := uc.DetectIntent(context.Background(), "Học phí FPT 2025 bao nhiêu tiền?")
		if got.IntentID != "tuition_inquiry" {
			t.Errorf("expected detection to proceed past cache errors, got %+v", got)
		}
	})
}

// panicCache triggers the orchestrator's top-level recovery.
type panicCache struct{}

func (panicCache) Get(ctx context.Context, key string) (model.DetectionResult, bool, error) {
	panic("boom")
}

func (panicCache) Set(ctx context.Context, key string, result model.DetectionResult) error {
	return nil
}

func TestDetectIntentRecoversFromPanic(t *testing.T) {
	uc := newTestUseCase(&mockVectorRepo{}, panicCache{})

	got := uc.DetectIntent(context.Background(), "Học phí bao nhiêu?")

	if got.IntentID != "general_info" {
		t.Errorf("expected fallback intent after panic, got %s", got.IntentID)
	}
	if got.Confidence != 0.1 {
		t.Errorf("expected confidence 0.1, got %v", got.Confidence)
	}
	if got.Method != model.MethodRule {
		t.Errorf("expected method rule, got %s", got.Method)
	}
}

func TestDetectIntentIdempotent(t *testing.T) {
	uc := newTestUseCase(&mockVectorRepo{hits: []repository.ExampleHit{
		{IntentID: "campus_facilities", Routing: model.RoutingRAG, Tools: []string{"knowledge_search"}, Score: 0.77},
	}}, nil)

	queries := []string{
		"Học phí FPT 2025 bao nhiêu tiền?",
		mediumQuery,
		"Hôm nay trời có mưa không?",
	}
	for _, q := range queries {
		first := uc.DetectIntent(context.Background(), q)
		second := uc.DetectIntent(context.Background(), q)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("detection not idempotent for %q: %+v vs %+v", q, first, second)
		}
	}
}

func TestDetectIntentConfidenceAlwaysInRange(t *testing.T) {
	uc := newTestUseCase(&mockVectorRepo{hits: []repository.ExampleHit{
		{IntentID: "campus_facilities", Routing: model.RoutingRAG, Tools: []string{"knowledge_search"}, Score: 1.4},
	}}, nil)

	queries := []string{
		"",
		"Học phí học phí tuition chi phí giá bao nhiêu",
		mediumQuery,
		"Hôm nay trời có mưa không?",
		"asdf qwerty 12345",
	}
	for _, q := range queries {
		got := uc.DetectIntent(context.Background(), q)
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("confidence out of range for %q: %v", q, got.Confidence)
		}
	}
}

func TestReloadRules(t *testing.T) {
	t.Run("Swaps Table", func(t *testing.T) {
		repo := &mockRuleRepo{rs: testRuleSet()}
		uc, err := New(context.Background(), &mockLogger{}, testDetectionConfig(), repo, &mockVectorRepo{}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !uc.IsReady() {
			t.Fatal("expected ready after New")
		}

		// Drop the tuition rule; the same query must stop matching it.
		rs := testRuleSet()
		rs.Rules = rs.Rules[1:]
		repo.rs = rs
		if err := uc.ReloadRules(context.Background()); err != nil {
			t.Fatal(err)
		}

		got := uc.DetectIntent(context.Background(), "Học phí FPT 2025 bao nhiêu tiền?")
		if got.IntentID == "tuition_inquiry" {
			t.Error("expected tuition rule to be gone after reload")
		}
	})

	t.Run("Failed Reload Keeps Previous Table", func(t *testing.T) {
		repo := &mockRuleRepo{rs: testRuleSet()}
		uc, err := New(context.Background(), &mockLogger{}, testDetectionConfig(), repo, &mockVectorRepo{}, nil)
		if err != nil {
			t.Fatal(err)
		}

		repo.err = errors.New("file vanished")
		if err := uc.ReloadRules(context.Background()); err == nil {
			t.Fatal("expected reload error")
		}

		got := uc.DetectIntent(context.Background(), "Học phí FPT 2025 bao nhiêu tiền?")
		if got.IntentID != "tuition_inquiry" {
			t.Errorf("expected previous table to stay active, got %+v", got)
		}
	})

	t.Run("New Fails On Load Error", func(t *testing.T) {
		repo := &mockRuleRepo{err: errors.New("no such file")}
		if _, err := New(context.Background(), &mockLogger{}, testDetectionConfig(), repo, &mockVectorRepo{}, nil); err == nil {
			t.Fatal("expected New to fail when rules cannot load")
		}
	})
}

func keysOf(m map[string]model.DetectionResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
