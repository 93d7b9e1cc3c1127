package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.prompt.router/internal/cache"
	"dev.prompt.router/internal/models"
	"dev.prompt.router/internal/vectordb/qdrant"
)

type fakeEmbedder struct {
	calls int
	dim   int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	vec := make([]float32, f.dim)
	vec[0] = 1
	return vec, nil
}

func (f *fakeEmbedder) Dimension() int { return f.dim }

type fakeStore struct {
	ensured     []string
	ensuredDims []int
	searches    []qdrant.SearchOptions
	results     [][]qdrant.ScoredPoint
	upserted    []qdrant.Point
	searchErr   error
	upsertErr   error
}

func (f *fakeStore) EnsureCollection(_ context.Context, name string, dimension int) error {
	f.ensured = append(f.ensured, name)
	f.ensuredDims = append(f.ensuredDims, dimension)
	return nil
}

func (f *fakeStore) UpsertPoints(_ context.Context, _ string, points []qdrant.Point) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, points...)
	return nil
}

func (f *fakeStore) Search(_ context.Context, _ string, _ []float32, opts qdrant.SearchOptions) ([]qdrant.ScoredPoint, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.searches = append(f.searches, opts)
	if len(f.results) == 0 {
		return nil, nil
	}
	hits := f.results[0]
	f.results = f.results[1:]
	return hits, nil
}

type fakeResultCache struct {
	entries map[string]*models.ClassificationResult
	getErr  error
	putErr  error
	puts    int
}

func newFakeResultCache() *fakeResultCache {
	return &fakeResultCache{entries: make(map[string]*models.ClassificationResult)}
}

func (f *fakeResultCache) GetResult(_ context.Context, prompt string) (*models.ClassificationResult, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if r, ok := f.entries[prompt]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, cache.ErrCacheMiss
}

func (f *fakeResultCache) PutResult(_ context.Context, prompt string, result *models.ClassificationResult) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	copied := *result
	f.entries[prompt] = &copied
	return nil
}

func hit(category string, score float32) qdrant.ScoredPoint {
	return qdrant.ScoredPoint{
		Score:   score,
		Payload: map[string]interface{}{"category": category, "text": "example"},
	}
}

func newClassifier(store *fakeStore, rc *fakeResultCache) (*SemanticClassifier, *fakeEmbedder) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	enc := &fakeEmbedder{dim: 8}
	return NewSemanticClassifier(enc, store, rc, logger), enc
}

func TestClassify_CacheHitSkipsEmbedding(t *testing.T) {
	store := &fakeStore{}
	rc := newFakeResultCache()
	rc.entries["hello"] = &models.ClassificationResult{
		Category:   models.CategorySimple,
		Confidence: 0.9,
		Source:     models.SourceSemantic,
	}
	c, enc := newClassifier(store, rc)

	result, err := c.Classify(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, models.SourceCache, result.Source)
	assert.Equal(t, models.CategorySimple, result.Category)
	assert.Zero(t, enc.calls, "cache hit must not embed")
	assert.Empty(t, store.searches, "cache hit must not search")
}

func TestClassify_ConfidentFirstPassSkipsSecondAndCaches(t *testing.T) {
	store := &fakeStore{results: [][]qdrant.ScoredPoint{
		{hit("code", 0.95), hit("code", 0.9), hit("code", 0.85)},
	}}
	rc := newFakeResultCache()
	c, enc := newClassifier(store, rc)

	result, err := c.Classify(context.Background(), "fix this bug in my parser")
	require.NoError(t, err)

	assert.Equal(t, models.CategoryCode, result.Category)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
	assert.Equal(t, models.SourceSemantic, result.Source)
	assert.Equal(t, 1, enc.calls, "prompt embedded exactly once")
	require.Len(t, store.searches, 1)
	assert.Equal(t, 7, store.searches[0].Limit)
	assert.Equal(t, 1, rc.puts, "high-confidence result is cached")
}

func TestClassify_LowConfidenceEscalatesToCubicPass(t *testing.T) {
	store := &fakeStore{results: [][]qdrant.ScoredPoint{
		// Linear: code 0.9 / 2.4 = 0.375 — not confident.
		{hit("code", 0.9), hit("simple", 0.8), hit("reasoning", 0.7)},
		// Cubic: code (0.729+0.614) vs simple 0.027 — decisive.
		{hit("code", 0.9), hit("code", 0.85), hit("simple", 0.3)},
	}}
	rc := newFakeResultCache()
	c, enc := newClassifier(store, rc)

	result, err := c.Classify(context.Background(), "why does this fail")
	require.NoError(t, err)

	require.Len(t, store.searches, 2)
	assert.Equal(t, 7, store.searches[0].Limit)
	assert.Equal(t, 20, store.searches[1].Limit)
	assert.Equal(t, 1, enc.calls, "escalation reuses the same vector")

	assert.Equal(t, models.CategoryCode, result.Category)
	assert.Greater(t, result.Confidence, 0.95)
	assert.Equal(t, 1, rc.puts)
}

func TestClassify_KeepsFirstPassWhenSecondIsNotStrictlyBetter(t *testing.T) {
	store := &fakeStore{results: [][]qdrant.ScoredPoint{
		// Linear: code 0.6.
		{hit("code", 0.6), hit("simple", 0.4)},
		// Cubic ties at 0.5 each; winner would flip to simple, but 0.5 < 0.6.
		{hit("code", 0.5), hit("simple", 0.5)},
	}}
	rc := newFakeResultCache()
	c, _ := newClassifier(store, rc)

	result, err := c.Classify(context.Background(), "ambiguous prompt")
	require.NoError(t, err)

	require.Len(t, store.searches, 2)
	assert.Equal(t, models.CategoryCode, result.Category)
	assert.InDelta(t, 0.6, result.Confidence, 1e-9)
	assert.Zero(t, rc.puts, "below-threshold results are never cached")
}

func TestClassify_ScoresSumToOne(t *testing.T) {
	store := &fakeStore{results: [][]qdrant.ScoredPoint{
		{hit("code", 0.9), hit("creative", 0.7), hit("simple", 0.4)},
		{hit("code", 0.9), hit("creative", 0.7), hit("simple", 0.4)},
	}}
	rc := newFakeResultCache()
	c, _ := newClassifier(store, rc)

	result, err := c.Classify(context.Background(), "prompt")
	require.NoError(t, err)

	var sum float64
	for _, s := range result.Scores {
		sum += s
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Len(t, result.Scores, len(models.AllCategories))
}

func TestClassify_NoHitsYieldsZeroConfidenceFirstCategory(t *testing.T) {
	store := &fakeStore{results: [][]qdrant.ScoredPoint{{}, {}}}
	rc := newFakeResultCache()
	c, _ := newClassifier(store, rc)

	result, err := c.Classify(context.Background(), "anything at all")
	require.NoError(t, err)

	assert.Equal(t, models.AllCategories[0], result.Category)
	assert.Zero(t, result.Confidence)
	for cat, s := range result.Scores {
		assert.Zero(t, s, "category %s", cat)
	}
	assert.Empty(t, result.Signals)
	assert.Zero(t, rc.puts)
	assert.Equal(t, models.EstimateTokens("anything at all"), result.EstimatedInputTokens)
}

func TestClassify_TiesBreakByCategoryOrder(t *testing.T) {
	store := &fakeStore{results: [][]qdrant.ScoredPoint{
		{hit("creative", 0.5), hit("code", 0.5)},
		{hit("creative", 0.5), hit("code", 0.5)},
	}}
	rc := newFakeResultCache()
	c, _ := newClassifier(store, rc)

	result, err := c.Classify(context.Background(), "prompt")
	require.NoError(t, err)

	// code precedes creative in the declared category order.
	assert.Equal(t, models.CategoryCode, result.Category)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
}

func TestClassify_UnknownPayloadCategoryStillEmitsSignal(t *testing.T) {
	store := &fakeStore{results: [][]qdrant.ScoredPoint{
		{hit("garbage", 0.9), hit("code", 0.8)},
	}}
	rc := newFakeResultCache()
	c, _ := newClassifier(store, rc)

	result, err := c.Classify(context.Background(), "prompt")
	require.NoError(t, err)

	assert.Equal(t, models.CategoryCode, result.Category)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
	assert.Equal(t, []string{"garbage(0.90)", "code(0.80)"}, result.Signals)
}

func TestClassify_CacheReadErrorPropagates(t *testing.T) {
	store := &fakeStore{}
	rc := newFakeResultCache()
	rc.getErr = errors.New("redis connection refused")
	c, _ := newClassifier(store, rc)

	_, err := c.Classify(context.Background(), "prompt")
	require.Error(t, err)

	var cerr *ClassifierError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "CLASSIFIER_ERROR", cerr.Code())
}

func TestClassify_CacheWriteFailureIsNonFatal(t *testing.T) {
	store := &fakeStore{results: [][]qdrant.ScoredPoint{
		{hit("code", 0.9)},
	}}
	rc := newFakeResultCache()
	rc.putErr = errors.New("redis write failed")
	c, _ := newClassifier(store, rc)

	result, err := c.Classify(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCode, result.Category)
}

func TestAddExample_UpsertsLabelledPoint(t *testing.T) {
	store := &fakeStore{}
	rc := newFakeResultCache()
	c, enc := newClassifier(store, rc)

	require.NoError(t, c.AddExample(context.Background(), "plot revenue by week", models.CategoryDataAnalysis))
	require.NoError(t, c.AddExample(context.Background(), "write a sonnet", models.CategoryCreative))

	require.Len(t, store.upserted, 2)
	assert.Equal(t, 2, enc.calls)

	first, second := store.upserted[0], store.upserted[1]
	assert.Equal(t, "data_analysis", first.Payload["category"])
	assert.Equal(t, "plot revenue by week", first.Payload["text"])
	assert.Equal(t, "feedback", first.Payload["source"])
	assert.NotEmpty(t, first.Payload["addedAt"])
	assert.Greater(t, second.ID, first.ID, "point ids are monotonic")
}

func TestAddExample_RejectsUnknownCategory(t *testing.T) {
	store := &fakeStore{}
	c, _ := newClassifier(store, newFakeResultCache())

	err := c.AddExample(context.Background(), "text", models.TaskCategory("poetry"))
	require.Error(t, err)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
	assert.Empty(t, store.upserted)
}

func TestEnsureCollection_UsesEncoderDimension(t *testing.T) {
	store := &fakeStore{}
	c, _ := newClassifier(store, newFakeResultCache())

	require.NoError(t, c.EnsureCollection(context.Background()))
	require.Len(t, store.ensured, 1)
	assert.Equal(t, CollectionName, store.ensured[0])
	assert.Equal(t, 8, store.ensuredDims[0])
}

func TestSeed_WritesEveryCorpusExample(t *testing.T) {
	store := &fakeStore{}
	c, _ := newClassifier(store, newFakeResultCache())

	count, err := c.Seed(context.Background())
	require.NoError(t, err)

	expected := 0
	for _, examples := range seedCorpus {
		expected += len(examples)
	}
	assert.Equal(t, expected, count)
	assert.Len(t, store.upserted, expected)
	for _, p := range store.upserted {
		assert.Equal(t, "seed", p.Payload["source"])
	}
}

func TestSeed_CorpusCoversEveryCategory(t *testing.T) {
	for _, cat := range models.AllCategories {
		assert.GreaterOrEqual(t, len(seedCorpus[cat]), 8, "category %s needs enough examples", cat)
	}
}
