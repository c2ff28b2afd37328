package usecase

import (
	"context"
	"time"

	"university-intent-service/config"
	"university-intent-service/internal/intent/repository"
	"university-intent-service/internal/model"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// Mock rule repository serving a fixed in-memory rule set
type mockRuleRepo struct {
	rs  repository.RuleSet
	err error
}

func (m *mockRuleRepo) Load(ctx context.Context) (repository.RuleSet, error) {
	return m.rs, m.err
}

// Mock vector repository with scripted hits or failure
type mockVectorRepo struct {
	hits  []repository.ExampleHit
	err   error
	calls int
}

func (m *mockVectorRepo) SearchExamples(ctx context.Context, opt repository.SearchExamplesOptions) ([]repository.ExampleHit, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

func (m *mockVectorRepo) UpsertExamples(ctx context.Context, examples []model.IntentExample) error {
	return nil
}

func (m *mockVectorRepo) EnsureCollection(ctx context.Context) error {
	return nil
}

// Mock cache recording gets and sets
type mockCache struct {
	entries map[string]model.DetectionResult
	getErr  error
	setErr  error
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]model.DetectionResult{}}
}

func (m *mockCache) Get(ctx context.Context, key string) (model.DetectionResult, bool, error) {
	if m.getErr != nil {
		return model.DetectionResult{}, false, m.getErr
	}
	result, ok := m.entries[key]
	return result, ok, nil
}

func (m *mockCache) Set(ctx context.Context, key string, result model.DetectionResult) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = result
	m.sets++
	return nil
}

// testDetectionConfig returns the production default thresholds.
func testDetectionConfig() config.DetectionConfig {
	return config.DetectionConfig{
		HighConfidence:       0.8,
		MediumConfidence:     0.4,
		IrrelevantFloor:      0.1,
		KeywordWeight:        0.4,
		PatternWeight:        0.6,
		OffsetGap:            20,
		OffsetMinScore:       0.6,
		BlendRuleCoeff:       0.7,
		BlendVectorCoeff:     0.3,
		BlendAgreementBonus:  0.1,
		VectorTopK:           3,
		VectorTimeout:        3 * time.Second,
		CacheMinConfidence:   0.8,
		IrrelevantConfidence: 0.05,
		NoMatchConfidence:    0.3,
		EmptyIndexConfidence: 0.2,
		PanicConfidence:      0.1,
	}
}

// testRuleSet mirrors the shipped rule payload closely enough for the
// decision-policy scenarios.
func testRuleSet() repository.RuleSet {
	return repository.RuleSet{
		Version:          "test",
		FallbackIntentID: "general_info",
		Rules: []model.IntentRule{
			{
				IntentID: "tuition_inquiry",
				Routing:  model.RoutingDatabase,
				Tools:    []string{"tuition_lookup"},
				Keywords: []string{"học phí", "tuition", "chi phí"},
				Patterns: []string{`học phí.*(bao nhiêu|giá|năm)`},
				Weight:   1.4,
			},
			{
				IntentID:         "campus_facilities",
				Routing:          model.RoutingRAG,
				Tools:            []string{"knowledge_search"},
				Keywords:         []string{"campus", "ký túc xá", "cơ sở vật chất"},
				Weight:           1.2,
				NegativeKeywords: nil,
			},
			{
				IntentID: "admission_requirements",
				Routing:  model.RoutingHybrid,
				Tools:    []string{"knowledge_search", "admission_lookup"},
				Keywords: []string{"tuyển sinh", "điểm chuẩn"},
				Weight:   1.3,
			},
			{
				IntentID: "general_info",
				Routing:  model.RoutingRAG,
				Tools:    []string{"knowledge_search"},
				Keywords: []string{"trường fpt"},
				Weight:   0.8,
			},
		},
	}
}

// newTestUseCase builds a UseCase over the mock repos. Panics on rule
// compile failure since the test rule set is static.
func newTestUseCase(vectorRepo repository.VectorRepository, cache repository.ResultCache) *implUseCase {
	uc, err := New(context.Background(), &mockLogger{}, testDetectionConfig(),
		&mockRuleRepo{rs: testRuleSet()}, vectorRepo, cache)
	if err != nil {
		panic(err)
	}
	return uc
}
