package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dev.prompt.router/internal/models"
)

// CompletionService is the slice of the router the completion endpoint uses.
type CompletionService interface {
	Complete(ctx context.Context, prompt string, opts *models.RoutingOptions) (*models.LlmResponse, error)
}

// CompletionRequest is the body of POST /complete.
type CompletionRequest struct {
	Prompt  string                 `json:"prompt" binding:"required,min=1"`
	Options *models.RoutingOptions `json:"options"`
}

// CompletionHandler serves POST /complete.
type CompletionHandler struct {
	service CompletionService
	logger  *logrus.Logger
}

// NewCompletionHandler builds the handler.
func NewCompletionHandler(service CompletionService, logger *logrus.Logger) *CompletionHandler {
	return &CompletionHandler{service: service, logger: logger}
}

// Handle validates the request, fills the public-by-default sensitivity,
// and routes the prompt.
func (h *CompletionHandler) Handle(c *gin.Context) {
	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "VALIDATION_ERROR"})
		return
	}

	opts := req.Options
	if opts == nil {
		opts = &models.RoutingOptions{}
	}
	if err := validateOptions(opts); err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}
	if opts.Sensitivity == "" {
		opts.Sensitivity = models.SensitivityPublic
	}

	resp, err := h.service.Complete(c.Request.Context(), req.Prompt, opts)
	if err != nil {
		h.logger.WithError(err).Error("Completion failed")
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// validateOptions rejects unknown enum values before they reach routing.
func validateOptions(opts *models.RoutingOptions) error {
	if opts.Strategy != "" && !opts.Strategy.Valid() {
		return &models.ValidationError{Field: "strategy", Message: "unknown strategy: " + string(opts.Strategy)}
	}
	if opts.Sensitivity != "" && !opts.Sensitivity.Valid() {
		return &models.ValidationError{Field: "sensitivity", Message: "unknown sensitivity: " + string(opts.Sensitivity)}
	}
	if opts.ForceCategory != "" && !opts.ForceCategory.Valid() {
		return &models.ValidationError{Field: "forceCategory", Message: "unknown category: " + string(opts.ForceCategory)}
	}
	if opts.RequireContextWindow < 0 {
		return &models.ValidationError{Field: "requireContextWindow", Message: "must not be negative"}
	}
	if opts.MaxCostPer1MTokens != nil && *opts.MaxCostPer1MTokens < 0 {
		return &models.ValidationError{Field: "maxCostPer1MTokens", Message: "must not be negative"}
	}
	return nil
}
