package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/autovault/pkg/database"
)

// HealthChecker reports archive database health; *database.DB satisfies it
type HealthChecker interface {
	HealthCheck(ctx context.Context) (*database.HealthStatus, error)
}

// HealthHandler serves GET /health
type HealthHandler struct {
	db           HealthChecker // nil → archive disabled
	cacheEnabled bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db HealthChecker, cacheEnabled bool) *HealthHandler {
	return &HealthHandler{db: db, cacheEnabled: cacheEnabled}
}

// Check returns service health. A failing archive degrades but never fails the check.
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":  "ok",
		"service": "autovault-abs-api",
		"cache":   enabledLabel(h.cacheEnabled),
	}

	if h.db == nil {
		resp["archive"] = "disabled"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if status, err := h.db.HealthCheck(ctx); err != nil {
			resp["status"] = "degraded"
			resp["archive"] = "unavailable"
		} else {
			resp["archive"] = "ok"
			resp["archive_response_ms"] = status.ResponseTime.Milliseconds()
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
