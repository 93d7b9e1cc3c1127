package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"dev.prompt.router/internal/models"
)

// AuditRepository persists audit entries to classification_logs.
type AuditRepository struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

// NewAuditRepository builds a repository on the shared pool.
func NewAuditRepository(pool *pgxpool.Pool, logger *logrus.Logger) *AuditRepository {
	return &AuditRepository{pool: pool, logger: logger}
}

// Insert appends one audit row.
func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditEntry) error {
	query := `
		INSERT INTO classification_logs
			(prompt_hash, prompt_preview, category, confidence, source, model_used, cost_usd, latency_ms, corrected_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var correctedTo *string
	if entry.CorrectedTo != "" {
		s := string(entry.CorrectedTo)
		correctedTo = &s
	}

	_, err := r.pool.Exec(ctx, query,
		entry.PromptHash,
		entry.PromptPreview,
		string(entry.Category),
		entry.Confidence,
		string(entry.Source),
		entry.Model,
		entry.CostUsd,
		entry.LatencyMs,
		correctedTo,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
