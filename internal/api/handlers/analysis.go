package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/autovault/internal/abs"
	"github.com/wonny/autovault/internal/archive"
	"github.com/wonny/autovault/internal/contracts"
	"github.com/wonny/autovault/internal/dataset"
	"github.com/wonny/autovault/internal/report"
	"github.com/wonny/autovault/pkg/logger"
	"github.com/wonny/autovault/pkg/redis"
)

// requestDatasetName dataset_name of pools submitted over HTTP
const requestDatasetName = "api_request"

// AnalysisHandler handles analysis and validation endpoints
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
type AnalysisHandler struct {
	engine  *abs.Engine
	builder *report.Builder
	cache   *redis.Cache
	repo    contracts.ReportRepository // nil → 아카이브 비활성
	logger  *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(
	engine *abs.Engine,
	builder *report.Builder,
	cache *redis.Cache,
	repo contracts.ReportRepository,
	log *logger.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		engine:  engine,
		builder: builder,
		cache:   cache,
		repo:    repo,
		logger:  log,
	}
}

// decodeRequestPools reads the body in any supported dataset shape
func decodeRequestPools(w http.ResponseWriter, r *http.Request) ([]contracts.Pool, string, bool) {
	loanPools, err := dataset.DecodePools(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, "Request body too large", false
		case errors.Is(err, dataset.ErrMalformedLoan):
			return nil, err.Error(), false
		case errors.Is(err, dataset.ErrUnknownFormat):
			return nil, "Unrecognized loan data format (expected {\"loans\": [...]}, {\"pools\": [...]} or an array)", false
		default:
			return nil, "Invalid request body", false
		}
	}

	pools := make([]contracts.Pool, len(loanPools))
	for i, loans := range loanPools {
		pools[i] = contracts.Pool{
			DatasetName:  requestDatasetName,
			DatasetIndex: 0,
			PoolIndex:    i,
			Loans:        loans,
		}
	}
	return pools, "", true
}

// Analyze runs the full analysis over the submitted pools
// POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pools, msg, ok := decodeRequestPools(w, r)
	if !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	digest, err := report.Digest(pools)
	if err != nil {
		h.logger.WithError(err).Error("Failed to digest request")
		respondError(w, http.StatusInternalServerError, "Failed to analyze pools")
		return
	}

	batch := &contracts.Batch{Mode: contracts.ModeAPIRequest, Pools: pools}
	key := redis.ReportKey(digest, h.builder.AssumptionsHash())

	var runID string
	var body json.RawMessage
	hit, err := h.cache.GetOrSet(ctx, key, &body, 0, func() (interface{}, error) {
		rep, err := h.builder.Build(ctx, batch)
		if err != nil {
			return nil, err
		}
		runID = h.archive(r, rep, digest)
		return rep, nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to build report")
		respondError(w, http.StatusInternalServerError, "Failed to analyze pools")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"input_digest": digest,
		"pools":        len(pools),
		"cache_hit":    hit,
	}).Info("Analysis served")

	if runID != "" {
		w.Header().Set("X-Run-ID", runID)
	}
	respondReport(w, body, hit)
}

// archive stores the report when the archive is enabled; failures are logged only
func (h *AnalysisHandler) archive(r *http.Request, rep *contracts.Report, digest string) string {
	if h.repo == nil {
		return ""
	}

	rec, err := archive.NewRecord(rep, digest)
	if err != nil {
		h.logger.WithError(err).Warn("Report not archived")
		return ""
	}
	if err := h.repo.Save(r.Context(), rec); err != nil {
		h.logger.WithError(err).Warn("Report not archived")
		return ""
	}
	return rec.RunID.String()
}

// Validate runs the loan validator and the intake lint without analysing
// POST /api/validate
func (h *AnalysisHandler) Validate(w http.ResponseWriter, r *http.Request) {
	pools, msg, ok := decodeRequestPools(w, r)
	if !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	respondJSON(w, http.StatusOK, report.Inspect(h.engine, pools))
}
