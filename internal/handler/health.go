package handler

import (
	"net/http"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	"github.com/Payphone-Digital/leadgen/pkg/health"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	monitor *health.Monitor
}

type HealthCheckResponse struct {
	Status    health.Status                 `json:"status"`
	Version   string                        `json:"version"`
	Timestamp time.Time                     `json:"timestamp"`
	Checks    map[string]health.CheckResult `json:"checks"`
}

func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// HealthCheck answers 503 only when a critical dependency is down
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	report := h.monitor.CheckAll(c.Request.Context())

	statusCode := http.StatusOK
	if !report.Healthy() {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthCheckResponse{
		Status:    report.Status,
		Version:   constants.AppVersion,
		Timestamp: time.Now(),
		Checks:    report.Checks,
	})
}

// BasicHealth is a dependency-free liveness probe
func (h *HealthHandler) BasicHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    health.StatusHealthy,
		"version":   constants.AppVersion,
		"timestamp": time.Now(),
	})
}
