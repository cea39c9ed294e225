package contracts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// ReportRepository archives analysis reports
type ReportRepository interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, rec *ArchivedReport) error
	Get(ctx context.Context, runID uuid.UUID) (*ArchivedReport, error)
	ListRecent(ctx context.Context, limit int) ([]*ArchivedReport, error)
	FindByDigest(ctx context.Context, digest string) (*ArchivedReport, error)
}

// ArchivedReport represents one row of abs.analysis_reports
type ArchivedReport struct {
	RunID           uuid.UUID       `json:"run_id"`
	InputDigest     string          `json:"input_digest"`
	ExecutionMode   string          `json:"execution_mode"`
	AssumptionsHash string          `json:"assumptions_hash"`
	Report          json.RawMessage `json:"report,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
