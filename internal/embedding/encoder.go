package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/sirupsen/logrus"
)

// Encoder turns text into fixed-dimension vectors for similarity search.
type Encoder interface {
	Warmup(ctx context.Context) error
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	ModelName() string
}

const bigramWeight = 0.5

// LocalEncoder is a deterministic feature-hashing encoder. It projects
// lowercase word unigrams and bigrams into a fixed number of signed buckets
// and L2-normalises the result, so identical text always yields an identical
// unit vector without any external model service.
type LocalEncoder struct {
	modelName string
	cacheDir  string
	dim       int
	logger    *logrus.Logger

	mu     sync.RWMutex
	warmed bool
}

// NewLocalEncoder builds an encoder producing vectors of the given dimension.
func NewLocalEncoder(modelName, cacheDir string, dim int, logger *logrus.Logger) (*LocalEncoder, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", dim)
	}
	return &LocalEncoder{
		modelName: modelName,
		cacheDir:  cacheDir,
		dim:       dim,
		logger:    logger,
	}, nil
}

// Warmup prepares the cache directory and verifies the encoder produces a
// unit vector for a probe text. Embed refuses to run before a successful
// warmup so startup failures surface early instead of per-request.
func (e *LocalEncoder) Warmup(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.cacheDir != "" {
		if err := os.MkdirAll(e.cacheDir, 0o755); err != nil {
			return fmt.Errorf("failed to create model cache dir %s: %w", e.cacheDir, err)
		}
	}

	e.mu.Lock()
	e.warmed = true
	e.mu.Unlock()

	probe, err := e.Embed(ctx, "warmup probe text")
	if err != nil {
		return fmt.Errorf("failed to embed warmup probe: %w", err)
	}
	var norm float64
	for _, v := range probe {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1.0) > 1e-4 {
		return fmt.Errorf("warmup probe produced non-unit vector (norm^2=%f)", norm)
	}

	e.logger.WithFields(logrus.Fields{
		"model":     e.modelName,
		"dimension": e.dim,
	}).Info("Embedding encoder ready")
	return nil
}

// Embed encodes text into a unit vector of the configured dimension.
// Text with no extractable tokens yields the zero vector.
func (e *LocalEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.RLock()
	warmed := e.warmed
	e.mu.RUnlock()
	if !warmed {
		return nil, fmt.Errorf("encoder used before warmup")
	}

	vec := make([]float32, e.dim)
	tokens := tokenize(text)
	for i, tok := range tokens {
		e.accumulate(vec, tok, 1.0)
		if i+1 < len(tokens) {
			e.accumulate(vec, tok+" "+tokens[i+1], bigramWeight)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1.0 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

// accumulate hashes the feature into a bucket, with one hash bit deciding
// the sign so collisions cancel rather than pile up.
func (e *LocalEncoder) accumulate(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(e.dim))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[bucket] += weight
}

// Dimension returns the vector width the encoder produces.
func (e *LocalEncoder) Dimension() int {
	return e.dim
}

// ModelName returns the configured model identifier.
func (e *LocalEncoder) ModelName() string {
	return e.modelName
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
