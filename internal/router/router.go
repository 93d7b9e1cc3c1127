package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dev.prompt.router/internal/config"
	"dev.prompt.router/internal/handlers"
	"dev.prompt.router/internal/metrics"
)

// Handlers groups everything the HTTP surface serves.
type Handlers struct {
	Completion *handlers.CompletionHandler
	Feedback   *handlers.FeedbackHandler
	Health     *handlers.HealthHandler
	Breakers   *handlers.BreakersHandler
}

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(cfg *config.Config, h Handlers, logger *logrus.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RequestLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/complete", h.Completion.Handle)
	r.POST("/feedback", h.Feedback.Handle)
	r.GET("/health", h.Health.Handle)
	r.GET("/stats/breakers", h.Breakers.Handle)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}
