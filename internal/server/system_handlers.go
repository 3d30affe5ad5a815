package server

import (
	"context"
	"net/http"
	"time"

	"fitstudio/internal/api"
	"fitstudio/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Health godoc
// @Summary      Health check
// @Description  Reports degraded when the database or the email queue is unreachable.
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func (s *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := api.HealthResponse{Status: "ok"}
	status := http.StatusOK

	if err := s.db.PingContext(ctx); err != nil {
		logger.Warn("health check: database unreachable", "error", err)
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	depth, err := s.email.QueueLength(ctx)
	if err != nil {
		logger.Warn("health check: email queue unreachable", "error", err)
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	resp.EmailQueueDepth = depth

	c.JSON(status, resp)
}

// Metrics godoc
// @Summary      Prometheus metrics
// @Tags         system
// @Produce      plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
