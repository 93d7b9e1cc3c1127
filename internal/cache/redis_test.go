package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.prompt.router/internal/models"
)

func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewRedisClientFromExisting(client, logger), mr
}

func TestRedisClient_SetGetRoundTrip(t *testing.T) {
	rc, _ := newTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, rc.Set(ctx, "k1", payload{Name: "a", Count: 3}, time.Minute))

	var got payload
	require.NoError(t, rc.Get(ctx, "k1", &got))
	assert.Equal(t, payload{Name: "a", Count: 3}, got)
}

func TestRedisClient_GetMissingKeyReturnsCacheMiss(t *testing.T) {
	rc, _ := newTestRedis(t)

	var dest map[string]string
	err := rc.Get(context.Background(), "absent", &dest)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisClient_GetCorruptValueFails(t *testing.T) {
	rc, mr := newTestRedis(t)
	mr.Set("bad", "{not json")

	var dest map[string]string
	err := rc.Get(context.Background(), "bad", &dest)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisClient_SetHonoursTTL(t *testing.T) {
	rc, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "ttl-key", "v", time.Minute))
	mr.FastForward(2 * time.Minute)

	var dest string
	err := rc.Get(ctx, "ttl-key", &dest)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestClassificationCache_RoundTrip(t *testing.T) {
	rc, mr := newTestRedis(t)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	cc := NewClassificationCache(rc, logger)
	ctx := context.Background()

	stored := &models.ClassificationResult{
		Category:   models.CategoryCode,
		Confidence: 0.91,
		Scores: map[models.TaskCategory]float64{
			models.CategorySimple:       0.02,
			models.CategoryCode:         0.91,
			models.CategoryReasoning:    0.03,
			models.CategoryDataAnalysis: 0.02,
			models.CategoryCreative:     0.02,
		},
		Signals:              []string{"code(0.94)", "code(0.89)"},
		EstimatedInputTokens: 12,
		Source:               models.SourceSemantic,
	}
	require.NoError(t, cc.PutResult(ctx, "Fix this bug", stored))

	got, err := cc.GetResult(ctx, "Fix this bug")
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	// TTL is applied to the hashed key.
	key := cc.Key("Fix this bug")
	assert.Contains(t, key, "llm:cls:")
	assert.Equal(t, ClassificationTTL, mr.TTL(key))
}

func TestClassificationCache_KeyNormalisesPrompt(t *testing.T) {
	rc, _ := newTestRedis(t)
	logger := logrus.New()
	cc := NewClassificationCache(rc, logger)

	assert.Equal(t, cc.Key("Hello World"), cc.Key("  hello world "))
}

func TestClassificationCache_MissOnUnknownPrompt(t *testing.T) {
	rc, _ := newTestRedis(t)
	logger := logrus.New()
	cc := NewClassificationCache(rc, logger)

	_, err := cc.GetResult(context.Background(), "never seen")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
