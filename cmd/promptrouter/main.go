package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"dev.prompt.router/internal/cache"
	"dev.prompt.router/internal/classifier"
	"dev.prompt.router/internal/config"
	"dev.prompt.router/internal/database"
	"dev.prompt.router/internal/embedding"
	"dev.prompt.router/internal/handlers"
	"dev.prompt.router/internal/llm"
	"dev.prompt.router/internal/router"
	"dev.prompt.router/internal/vectordb/qdrant"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load environment variables from .env if present; a missing file is
	// fine, the environment may be set directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Debug("Could not load .env file")
	}

	cfg := config.Load()
	logger := newLogger(cfg.Logging)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("Service failed")
	}
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx := context.Background()

	provider := llm.ResolveProvider(cfg.LLM.Provider)
	if provider != cfg.LLM.Provider {
		logger.WithFields(logrus.Fields{
			"requested": cfg.LLM.Provider,
			"resolved":  provider,
		}).Warn("Unknown LLM provider, falling back to default")
	}

	profiles := llm.BuiltinProfiles(provider)
	if cfg.LLM.ModelsConfigPath != "" {
		file, err := config.LoadModelsFile(cfg.LLM.ModelsConfigPath)
		if err != nil {
			return err
		}
		provider = llm.ResolveProvider(file.Provider)
		profiles = file.Models
		logger.WithFields(logrus.Fields{
			"path":     cfg.LLM.ModelsConfigPath,
			"provider": provider,
			"models":   len(profiles),
		}).Info("Loaded model catalogue from file")
	}

	if err := cfg.Validate(provider); err != nil {
		return err
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.URL, cfg.Redis.Timeout, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()

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

	cls := classifier.NewSemanticClassifier(encoder, qdrantClient, cache.NewClassificationCache(redisClient, logger), logger)
	if err := cls.EnsureCollection(ctx); err != nil {
		return err
	}

	var audit llm.AuditSink
	if cfg.Database.URL != "" {
		pool, err := database.NewPool(ctx, cfg.Database.URL, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := database.RunMigrations(ctx, pool, logger); err != nil {
			return err
		}
		audit = database.NewAuditRepository(pool, logger)
	} else {
		logger.Warn("DATABASE_URL not set, audit entries stay in memory")
		audit = database.NewMemoryAuditSink()
	}

	catalog, err := llm.NewCatalog(provider, profiles)
	if err != nil {
		return err
	}

	client, err := llm.NewProviderClient(provider, cfg.LLM.APIKeyFor(provider), logger)
	if err != nil {
		return err
	}

	rtr := llm.NewRouter(cls, client, catalog, audit, logger)

	engine := router.SetupRouter(cfg, router.Handlers{
		Completion: handlers.NewCompletionHandler(rtr, logger),
		Feedback:   handlers.NewFeedbackHandler(cls, logger),
		Health:     handlers.NewHealthHandler(encoder.ModelName()),
		Breakers:   handlers.NewBreakersHandler(rtr),
	}, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":     cfg.Server.Port,
			"provider": provider,
			"models":   len(catalog.GetAll()),
		}).Info("Starting prompt router")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Shutdown complete")
	return nil
}
