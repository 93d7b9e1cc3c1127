package cache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"dev.prompt.router/internal/embedding"
	"dev.prompt.router/internal/models"
)

const (
	classificationKeyPrefix = "llm:cls:"

	// ClassificationTTL bounds how long a high-confidence classification is
	// reused before the prompt is re-embedded.
	ClassificationTTL = 24 * time.Hour
)

// ClassificationCache stores high-confidence classification results keyed by
// prompt hash.
type ClassificationCache struct {
	redis  *RedisClient
	logger *logrus.Logger
}

// NewClassificationCache builds a cache on top of the shared Redis client.
func NewClassificationCache(redis *RedisClient, logger *logrus.Logger) *ClassificationCache {
	return &ClassificationCache{redis: redis, logger: logger}
}

// Key returns the cache key for a prompt.
func (c *ClassificationCache) Key(prompt string) string {
	return classificationKeyPrefix + embedding.PromptHash(prompt)
}

// GetResult returns the cached classification for prompt, or ErrCacheMiss.
func (c *ClassificationCache) GetResult(ctx context.Context, prompt string) (*models.ClassificationResult, error) {
	var result models.ClassificationResult
	if err := c.redis.Get(ctx, c.Key(prompt), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PutResult stores a classification under the prompt's key with the
// standard TTL.
func (c *ClassificationCache) PutResult(ctx context.Context, prompt string, result *models.ClassificationResult) error {
	return c.redis.Set(ctx, c.Key(prompt), result, ClassificationTTL)
}
