package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/productmanager/manager_api/internal/utils"
)

var startTime = time.Now()

// Pinger is satisfied by the document store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// GetHealth responds with service and store status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	code, health, storeStatus := http.StatusOK, "healthy", "connected"
	if err := h.store.Ping(ctx); err != nil {
		code, health, storeStatus = http.StatusServiceUnavailable, "degraded", "disconnected"
	}

	utils.Success(c, code, "Service health", gin.H{
		"status": health,
		"uptime": int(time.Since(startTime).Seconds()),
		"store":  storeStatus,
	})
}
