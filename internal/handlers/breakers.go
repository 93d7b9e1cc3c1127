package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dev.prompt.router/internal/llm"
)

// BreakerStats exposes the router's circuit breaker states.
type BreakerStats interface {
	BreakerSnapshots() []llm.BreakerSnapshot
}

// BreakersHandler serves GET /stats/breakers.
type BreakersHandler struct {
	stats BreakerStats
}

// NewBreakersHandler builds the handler.
func NewBreakersHandler(stats BreakerStats) *BreakersHandler {
	return &BreakersHandler{stats: stats}
}

// Handle returns the current breaker state per model.
func (h *BreakersHandler) Handle(c *gin.Context) {
	snapshots := h.stats.BreakerSnapshots()
	if snapshots == nil {
		snapshots = []llm.BreakerSnapshot{}
	}
	c.JSON(http.StatusOK, gin.H{"breakers": snapshots})
}
