package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"dev.prompt.router/internal/cache"
	"dev.prompt.router/internal/models"
	"dev.prompt.router/internal/vectordb/qdrant"
)

const (
	// CollectionName is the vector collection holding labelled examples.
	CollectionName = "llm_router_examples"

	// HighConfidence gates both the second KNN pass and cache writes.
	HighConfidence = 0.75

	firstPassK  = 7
	secondPassK = 20
)

// VectorStore is the slice of the Qdrant client the classifier needs.
type VectorStore interface {
	EnsureCollection(ctx context.Context, name string, dimension int) error
	UpsertPoints(ctx context.Context, collection string, points []qdrant.Point) error
	Search(ctx context.Context, collection string, vector []float32, opts qdrant.SearchOptions) ([]qdrant.ScoredPoint, error)
}

// Embedder produces vectors for prompts.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// ResultCache stores high-confidence classifications between requests.
type ResultCache interface {
	GetResult(ctx context.Context, prompt string) (*models.ClassificationResult, error)
	PutResult(ctx context.Context, prompt string, result *models.ClassificationResult) error
}

// ClassifierError wraps classification failures with a stable code.
type ClassifierError struct {
	Err error
}

func (e *ClassifierError) Error() string {
	return fmt.Sprintf("classification failed: %v", e.Err)
}

func (e *ClassifierError) Unwrap() error { return e.Err }

// Code returns the stable error code for API responses.
func (e *ClassifierError) Code() string { return "CLASSIFIER_ERROR" }

// SemanticClassifier labels prompts by nearest-neighbour voting over a
// collection of embedded examples.
type SemanticClassifier struct {
	encoder Embedder
	store   VectorStore
	cache   ResultCache
	logger  *logrus.Logger

	// pointID hands out monotonically increasing ids for upserted examples.
	pointID atomic.Uint64
}

// NewSemanticClassifier wires the classifier to its encoder, vector store
// and result cache.
func NewSemanticClassifier(encoder Embedder, store VectorStore, resultCache ResultCache, logger *logrus.Logger) *SemanticClassifier {
	c := &SemanticClassifier{
		encoder: encoder,
		store:   store,
		cache:   resultCache,
		logger:  logger,
	}
	// Seed the id counter from the clock so restarts keep issuing fresh ids.
	c.pointID.Store(uint64(time.Now().UnixNano()))
	return c
}

// EnsureCollection creates the example collection if it does not exist.
func (c *SemanticClassifier) EnsureCollection(ctx context.Context) error {
	if err := c.store.EnsureCollection(ctx, CollectionName, c.encoder.Dimension()); err != nil {
		return &ClassifierError{Err: err}
	}
	return nil
}

// Classify labels one prompt. Cached high-confidence results are returned
// as-is; otherwise the prompt is embedded once and scored with a 7-neighbour
// linear pass, escalating to a 20-neighbour cubic pass when the first pass
// is not confident enough.
func (c *SemanticClassifier) Classify(ctx context.Context, prompt string) (*models.ClassificationResult, error) {
	cached, err := c.cache.GetResult(ctx, prompt)
	if err == nil {
		cached.Source = models.SourceCache
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, &ClassifierError{Err: fmt.Errorf("cache read: %w", err)}
	}

	vector, err := c.encoder.Embed(ctx, prompt)
	if err != nil {
		return nil, &ClassifierError{Err: fmt.Errorf("embed prompt: %w", err)}
	}

	result, err := c.knnPass(ctx, vector, firstPassK, linearWeight)
	if err != nil {
		return nil, &ClassifierError{Err: err}
	}
	if result.Confidence < HighConfidence {
		second, err := c.knnPass(ctx, vector, secondPassK, cubicWeight)
		if err != nil {
			return nil, &ClassifierError{Err: err}
		}
		if second.Confidence > result.Confidence {
			result = second
		}
	}

	result.Source = models.SourceSemantic
	result.EstimatedInputTokens = models.EstimateTokens(prompt)

	if result.Confidence >= HighConfidence {
		if err := c.cache.PutResult(ctx, prompt, result); err != nil {
			c.logger.WithError(err).Warn("Failed to cache classification result")
		}
	}

	c.logger.WithFields(logrus.Fields{
		"category":   result.Category,
		"confidence": result.Confidence,
		"source":     result.Source,
	}).Debug("Classified prompt")
	return result, nil
}

func linearWeight(score float32) float64 { return float64(score) }

func cubicWeight(score float32) float64 { return math.Pow(float64(score), 3) }

// knnPass runs one KNN vote: every hit contributes weight(score) to its
// category, scores are normalised to sum to 1, and the winner is the
// highest-scoring category with ties broken by declaration order.
func (c *SemanticClassifier) knnPass(ctx context.Context, vector []float32, k int, weight func(float32) float64) (*models.ClassificationResult, error) {
	hits, err := c.store.Search(ctx, CollectionName, vector, qdrant.SearchOptions{
		Limit:       k,
		WithPayload: true,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	scores := make(map[models.TaskCategory]float64, len(models.AllCategories))
	for _, cat := range models.AllCategories {
		scores[cat] = 0
	}

	signals := make([]string, 0, len(hits))
	for _, hit := range hits {
		category, _ := hit.Payload["category"].(string)
		signals = append(signals, fmt.Sprintf("%s(%.2f)", category, hit.Score))
		cat := models.TaskCategory(category)
		if !cat.Valid() {
			continue
		}
		scores[cat] += weight(hit.Score)
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	if sum == 0 {
		sum = 1
	}
	for cat := range scores {
		scores[cat] /= sum
	}

	winner := models.AllCategories[0]
	best := -1.0
	for _, cat := range models.AllCategories {
		if scores[cat] > best {
			winner = cat
			best = scores[cat]
		}
	}

	return &models.ClassificationResult{
		Category:   winner,
		Confidence: scores[winner],
		Scores:     scores,
		Signals:    signals,
	}, nil
}

// AddExample embeds text and stores it as a labelled example from user
// feedback. The category must be valid.
func (c *SemanticClassifier) AddExample(ctx context.Context, text string, category models.TaskCategory) error {
	if !category.Valid() {
		return &models.ValidationError{Field: "category", Message: "unknown category: " + string(category)}
	}
	return c.addPoint(ctx, text, category, "feedback")
}

func (c *SemanticClassifier) addPoint(ctx context.Context, text string, category models.TaskCategory, source string) error {
	vector, err := c.encoder.Embed(ctx, text)
	if err != nil {
		return &ClassifierError{Err: fmt.Errorf("embed example: %w", err)}
	}

	point := qdrant.Point{
		ID:     c.pointID.Add(1),
		Vector: vector,
		Payload: map[string]interface{}{
			"category": string(category),
			"text":     text,
			"source":   source,
			"addedAt":  time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := c.store.UpsertPoints(ctx, CollectionName, []qdrant.Point{point}); err != nil {
		return &ClassifierError{Err: fmt.Errorf("upsert example: %w", err)}
	}

	c.logger.WithFields(logrus.Fields{
		"category": category,
		"source":   source,
	}).Info("Stored labelled example")
	return nil
}
