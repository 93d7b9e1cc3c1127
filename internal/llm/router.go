package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"dev.prompt.router/internal/embedding"
	"dev.prompt.router/internal/metrics"
	"dev.prompt.router/internal/models"
)

const (
	// ConfidenceMin is the classification confidence below which a prompt
	// is escalated to the reasoning category.
	ConfidenceMin = 0.5

	// auditTimeout bounds the fire-and-forget audit write.
	auditTimeout = 5 * time.Second

	// previewLimit is how many characters of the prompt the audit keeps.
	previewLimit = 200
)

// Classifier labels prompts and learns from feedback.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (*models.ClassificationResult, error)
	AddExample(ctx context.Context, text string, category models.TaskCategory) error
}

// AuditSink persists audit entries. Writes are best-effort.
type AuditSink interface {
	Insert(ctx context.Context, entry *models.AuditEntry) error
}

// Router picks a model for each prompt and completes against it, falling
// back through the ranked candidates on failure. It exclusively owns the
// per-model circuit breakers.
type Router struct {
	classifier Classifier
	client     ProviderClient
	catalog    *Catalog
	breakers   *BreakerRegistry
	audit      AuditSink
	retry      RetryConfig
	logger     *logrus.Logger
}

// NewRouter wires the routing pipeline together.
func NewRouter(classifier Classifier, client ProviderClient, catalog *Catalog, audit AuditSink, logger *logrus.Logger) *Router {
	return &Router{
		classifier: classifier,
		client:     client,
		catalog:    catalog,
		breakers:   NewBreakerRegistry(DefaultBreakerConfig(), logger),
		audit:      audit,
		retry:      DefaultRetryConfig(),
		logger:     logger,
	}
}

// Complete classifies the prompt, assembles and ranks candidate models, and
// returns the first successful completion.
func (r *Router) Complete(ctx context.Context, prompt string, opts *models.RoutingOptions) (*models.LlmResponse, error) {
	if opts == nil {
		opts = &models.RoutingOptions{}
	}

	classification, err := r.classify(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}
	metrics.RecordClassification(string(classification.Category), string(classification.Source))

	candidates, err := r.assembleCandidates(classification, opts)
	if err != nil {
		return nil, err
	}

	return r.completeWithFallback(ctx, prompt, classification, candidates)
}

// classify resolves the routing category. A forced category short-circuits
// the classifier entirely; low-confidence results are escalated to
// reasoning rather than sent to a weak model.
func (r *Router) classify(ctx context.Context, prompt string, opts *models.RoutingOptions) (*models.ClassificationResult, error) {
	if opts.ForceCategory != "" {
		if !opts.ForceCategory.Valid() {
			return nil, &models.ValidationError{Field: "forceCategory", Message: "unknown category: " + string(opts.ForceCategory)}
		}
		return &models.ClassificationResult{
			Category:             opts.ForceCategory,
			Confidence:           1,
			Scores:               map[models.TaskCategory]float64{},
			Signals:              []string{},
			EstimatedInputTokens: models.EstimateTokens(prompt),
			Source:               models.SourceSemantic,
		}, nil
	}

	classification, err := r.classifier.Classify(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if classification.Confidence < ConfidenceMin {
		r.logger.WithFields(logrus.Fields{
			"category":   classification.Category,
			"confidence": classification.Confidence,
		}).Warn("Low classification confidence, escalating to reasoning")
		classification.Category = models.CategoryReasoning
	}
	return classification, nil
}

// assembleCandidates produces the ordered list of models to try. A forced
// model bypasses filtering, ranking and breaker admission.
func (r *Router) assembleCandidates(classification *models.ClassificationResult, opts *models.RoutingOptions) ([]models.ModelProfile, error) {
	if opts.ForceModel != "" {
		profile, ok := r.catalog.Find(opts.ForceModel)
		if !ok {
			return nil, &UnknownModelError{Model: opts.ForceModel}
		}
		return []models.ModelProfile{profile}, nil
	}

	sensitivity := opts.Sensitivity
	if sensitivity == "" {
		// The HTTP layer defaults to public; anything reaching here
		// without a sensitivity gets the stricter treatment.
		sensitivity = models.SensitivityInternal
	}

	filtered := r.catalog.GetCandidates(sensitivity, opts.RequireContextWindow, opts.MaxCostPer1MTokens)
	ranked := StrategyFor(opts.Strategy).Select(filtered, classification.Category)

	admitted := make([]models.ModelProfile, 0, len(ranked))
	for _, m := range ranked {
		if r.breakers.Get(m.ID).CanExecute() {
			admitted = append(admitted, m)
		}
	}
	if len(admitted) == 0 {
		return nil, &NoModelsAvailableError{}
	}
	return admitted, nil
}

type completionResult struct {
	data      *CompletionData
	latencyMs int64
}

// completeWithFallback tries each candidate in order. Every candidate gets
// one retry set; its breaker records exactly one outcome per set.
func (r *Router) completeWithFallback(ctx context.Context, prompt string, classification *models.ClassificationResult, candidates []models.ModelProfile) (*models.LlmResponse, error) {
	var lastErr error
	for _, candidate := range candidates {
		modelID := candidate.ID
		result, err := WithRetry(ctx, r.retry, r.logger, func(ctx context.Context) (completionResult, error) {
			data, latency, err := r.client.Complete(ctx, prompt, modelID)
			return completionResult{data: data, latencyMs: latency}, err
		})
		if err != nil {
			r.breakers.Get(modelID).RecordFailure()
			metrics.RecordCompletion(modelID, "failure")
			r.logger.WithFields(logrus.Fields{
				"model": modelID,
			}).WithError(err).Warn("Model failed, trying next candidate")
			lastErr = err
			continue
		}

		r.breakers.Get(modelID).RecordSuccess()
		resp := buildResponse(classification, candidates, candidate, result)
		metrics.RecordCompletion(modelID, "success")
		metrics.ObserveCompletionLatency(modelID, float64(resp.LatencyMs)/1000)
		if resp.FallbackUsed {
			metrics.RecordFallback()
		}
		r.auditAsync(prompt, classification, resp)
		return resp, nil
	}
	return nil, &AllModelsFailedError{Attempted: len(candidates), LastErr: lastErr}
}

// buildResponse converts a raw completion into the routed response. Provider
// token counts win when present; a missing prompt count falls back to the
// classifier's estimate.
func buildResponse(classification *models.ClassificationResult, candidates []models.ModelProfile, used models.ModelProfile, result completionResult) *models.LlmResponse {
	inputTokens := result.data.Usage.PromptTokens
	if inputTokens == 0 {
		inputTokens = classification.EstimatedInputTokens
	}
	outputTokens := result.data.Usage.CompletionTokens

	content := ""
	if len(result.data.Choices) > 0 && result.data.Choices[0].Message.Content != nil {
		content = *result.data.Choices[0].Message.Content
	}

	cost := float64(inputTokens)/1e6*used.CostPer1MInput + float64(outputTokens)/1e6*used.CostPer1MOutput

	return &models.LlmResponse{
		Content:          content,
		Model:            used.ID,
		Category:         classification.Category,
		EstimatedCostUsd: cost,
		LatencyMs:        result.latencyMs,
		Usage: models.Usage{
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
		},
		FallbackUsed: used.ID != candidates[0].ID,
	}
}

// auditAsync fires the audit write without blocking or failing the request.
func (r *Router) auditAsync(prompt string, classification *models.ClassificationResult, resp *models.LlmResponse) {
	entry := &models.AuditEntry{
		PromptHash:    embedding.PromptHash(prompt),
		PromptPreview: preview(prompt, previewLimit),
		Category:      resp.Category,
		Confidence:    classification.Confidence,
		Source:        classification.Source,
		Model:         resp.Model,
		CostUsd:       resp.EstimatedCostUsd,
		LatencyMs:     resp.LatencyMs,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if err := r.audit.Insert(ctx, entry); err != nil {
			r.logger.WithError(err).Warn("Failed to write audit entry")
		}
	}()
}

func preview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// BreakerSnapshots exposes the current breaker states for diagnostics.
func (r *Router) BreakerSnapshots() []BreakerSnapshot {
	return r.breakers.Snapshots()
}
