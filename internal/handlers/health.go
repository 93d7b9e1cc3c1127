package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	TS     string `json:"ts"`
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	model string
}

// NewHealthHandler reports the given embedding model name in responses.
func NewHealthHandler(model string) *HealthHandler {
	return &HealthHandler{model: model}
}

// Handle returns liveness plus the loaded embedding model.
func (h *HealthHandler) Handle(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Model:  h.model,
		TS:     time.Now().UTC().Format(time.RFC3339),
	})
}
