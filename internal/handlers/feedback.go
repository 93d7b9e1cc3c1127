package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dev.prompt.router/internal/models"
)

// FeedbackService records corrected classifications as new examples.
type FeedbackService interface {
	AddExample(ctx context.Context, text string, category models.TaskCategory) error
}

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	Prompt          string `json:"prompt" binding:"required,min=1"`
	CorrectCategory string `json:"correctCategory" binding:"required"`
}

// FeedbackResponse acknowledges a stored example.
type FeedbackResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// FeedbackHandler serves POST /feedback.
type FeedbackHandler struct {
	service FeedbackService
	logger  *logrus.Logger
}

// NewFeedbackHandler builds the handler.
func NewFeedbackHandler(service FeedbackService, logger *logrus.Logger) *FeedbackHandler {
	return &FeedbackHandler{service: service, logger: logger}
}

// Handle stores the prompt as a labelled example so future similar prompts
// classify to the corrected category.
func (h *FeedbackHandler) Handle(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "VALIDATION_ERROR"})
		return
	}

	if err := h.service.AddExample(c.Request.Context(), req.Prompt, models.TaskCategory(req.CorrectCategory)); err != nil {
		h.logger.WithError(err).Error("Failed to store feedback example")
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, FeedbackResponse{
		OK:      true,
		Message: "example recorded for category " + req.CorrectCategory,
	})
}
