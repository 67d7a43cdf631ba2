package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers liveness checks
type HealthHandler struct{}

// Register mounts GET /healthz
func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
}

func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
