package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/autovault/internal/api/handlers"
	"github.com/wonny/autovault/pkg/logger"
)

// Handlers groups the endpoint handlers mounted by NewRouter
type Handlers struct {
	Health   *handlers.HealthHandler
	Analysis *handlers.AnalysisHandler
	Reports  *handlers.ReportsHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, limiter *RateLimiter, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check (rate limit 제외)
	r.HandleFunc("/health", h.Health.Check).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Analysis endpoints
	api.HandleFunc("/analyze", h.Analysis.Analyze).Methods("POST")
	api.HandleFunc("/validate", h.Analysis.Validate).Methods("POST")

	// Archive endpoints
	api.HandleFunc("/reports", h.Reports.List).Methods("GET")
	api.HandleFunc("/reports/{run_id}", h.Reports.Get).Methods("GET")

	if limiter != nil {
		api.Use(rateLimitMiddleware(limiter, log))
	}

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}
