package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	backend Pinger
	audit   Pinger
}

// NewHealthHandler takes a nil audit when the audit log is disabled.
func NewHealthHandler(backend, audit Pinger) *HealthHandler {
	return &HealthHandler{backend: backend, audit: audit}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := h.backend.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "Backend unreachable",
		})
		return
	}

	if h.audit != nil {
		if err := h.audit.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"error":  "Database connection failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
