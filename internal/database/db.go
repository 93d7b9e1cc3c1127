package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// migrations are applied in order at startup. Statements are idempotent so
// re-running them is safe.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS classification_logs (
		id BIGSERIAL PRIMARY KEY,
		prompt_hash TEXT,
		prompt_preview TEXT,
		category TEXT NOT NULL,
		confidence FLOAT,
		source TEXT,
		model_used TEXT,
		cost_usd FLOAT,
		latency_ms INT,
		corrected_to TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_classification_logs_prompt_hash ON classification_logs (prompt_hash)`,
	`CREATE INDEX IF NOT EXISTS idx_classification_logs_created_at ON classification_logs (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_classification_logs_category ON classification_logs (category)`,
	`CREATE INDEX IF NOT EXISTS idx_classification_logs_model_used ON classification_logs (model_used)`,
}

// NewPool connects to Postgres and verifies the connection.
func NewPool(ctx context.Context, url string, logger *logrus.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to PostgreSQL")
	return pool, nil
}

// RunMigrations applies every migration statement in order.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *logrus.Logger) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}
	logger.WithField("count", len(migrations)).Info("Database migrations applied")
	return nil
}
