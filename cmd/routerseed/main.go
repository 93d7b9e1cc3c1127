// Command routerseed populates the vector collection with the labelled
// example corpus. Run it once against a fresh Qdrant instance; upserts are
// idempotent per point id, so re-running only appends new copies.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"dev.prompt.router/internal/cache"
	"dev.prompt.router/internal/classifier"
	"dev.prompt.router/internal/config"
	"dev.prompt.router/internal/embedding"
	"dev.prompt.router/internal/models"
	"dev.prompt.router/internal/vectordb/qdrant"
)

// noopCache satisfies the classifier without a Redis connection; seeding
// never reads or writes classification results.
type noopCache struct{}

func (noopCache) GetResult(context.Context, string) (*models.ClassificationResult, error) {
	return nil, cache.ErrCacheMiss
}

func (noopCache) PutResult(context.Context, string, *models.ClassificationResult) error {
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Debug("Could not load .env file")
	}

	cfg := config.Load()
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("Seeding failed")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx := context.Background()

	qdrantClient := qdrant.NewClient(qdrant.Config{
		BaseURL: cfg.Qdrant.URL,
		APIKey:  cfg.Qdrant.APIKey,
		Timeout: cfg.Qdrant.Timeout,
	}, logger)
	if err := qdrantClient.Connect(ctx); err != nil {
		return err
	}

	encoder, err := embedding.NewLocalEncoder(cfg.Embedding.ModelName, cfg.Embedding.CacheDir, cfg.Embedding.Dimension, logger)
	if err != nil {
		return err
	}
	if err := encoder.Warmup(ctx); err != nil {
		return err
	}

	cls := classifier.NewSemanticClassifier(encoder, qdrantClient, noopCache{}, logger)
	if err := cls.EnsureCollection(ctx); err != nil {
		return err
	}

	count, err := cls.Seed(ctx)
	if err != nil {
		return err
	}

	total, err := qdrantClient.CountPoints(ctx, classifier.CollectionName)
	if err != nil {
		logger.WithError(err).Warn("Could not count collection points")
	} else {
		logger.WithField("points", total).Info("Collection point count")
	}

	logger.WithField("seeded", count).Info("Seeding complete")
	return nil
}
