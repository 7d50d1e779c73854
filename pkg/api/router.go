package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the handler routes onto a gin engine
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(h.Logger), gin.Recovery())

	r.GET("/healthz", h.Health)

	schedules := r.Group("/schedules")
	{
		schedules.GET("/:month", h.GetSchedule)
		schedules.POST("/:month/generate", h.GenerateSchedule)
		schedules.POST("/:month/finalize", h.FinalizeSchedule)
	}

	consent := r.Group("/consent-requests")
	{
		consent.GET("", h.ListConsentRequests)
		consent.POST("/:id", h.RecordConsent)
	}

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
