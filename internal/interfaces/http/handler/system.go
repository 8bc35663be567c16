package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger checks a backing service
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves liveness and readiness information
type SystemHandler struct {
	BaseHandler
	db      Pinger
	store   *dashboard.Store
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, store *dashboard.Store, version string) *SystemHandler {
	return &SystemHandler{db: db, store: store, version: version}
}

// Health reports whether the database answers and the store has loaded
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			logger.GetGinLogger(c).Warn("database health check failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["database"] = "unreachable"
		} else {
			body["database"] = "ok"
		}
	}

	snap := h.store.Snapshot()
	body["loading"] = snap.Loading
	body["projects"] = len(snap.State.Projects)

	c.JSON(status, body)
}
