package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wonny/autovault/internal/archive"
	"github.com/wonny/autovault/internal/contracts"
	"github.com/wonny/autovault/pkg/logger"
	"github.com/wonny/autovault/pkg/redis"
)

const maxListLimit = 200

// ReportsHandler serves archived reports
type ReportsHandler struct {
	repo   contracts.ReportRepository // nil → 503
	cache  *redis.Cache
	logger *logger.Logger
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(repo contracts.ReportRepository, cache *redis.Cache, log *logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// ListResponse represents recent archived runs
type ListResponse struct {
	Count   int                         `json:"count"`
	Reports []*contracts.ArchivedReport `json:"reports"`
}

// List returns recent archived runs (bodies omitted)
// GET /api/reports?limit=20
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "Report archive disabled")
		return
	}

	limit := archive.DefaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 || n > maxListLimit {
			respondError(w, http.StatusBadRequest, "Invalid limit (1-200)")
			return
		}
		limit = n
	}

	reports, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list reports")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve reports")
		return
	}

	respondJSON(w, http.StatusOK, ListResponse{
		Count:   len(reports),
		Reports: reports,
	})
}

// Get returns one archived report with its body
// GET /api/reports/{run_id}
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "Report archive disabled")
		return
	}

	vars := mux.Vars(r)
	runID, err := uuid.Parse(vars["run_id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid run_id")
		return
	}

	var rec contracts.ArchivedReport
	_, err = h.cache.GetOrSet(r.Context(), redis.ArchivedReportKey(runID.String()), &rec, 0, func() (interface{}, error) {
		return h.repo.Get(r.Context(), runID)
	})
	if errors.Is(err, archive.ErrReportNotFound) {
		respondError(w, http.StatusNotFound, "Report not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get report")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve report")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}
