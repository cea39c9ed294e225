package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/autovault/internal/contracts"
)

// ErrReportNotFound no archived run with that id / digest
var ErrReportNotFound = errors.New("report not found")

// DefaultListLimit GET /api/reports 기본 개수
const DefaultListLimit = 20

// schema statements, applied in order by EnsureSchema
var schema = []string{
	`CREATE SCHEMA IF NOT EXISTS abs`,
	`CREATE TABLE IF NOT EXISTS abs.analysis_reports (
		run_id           uuid PRIMARY KEY,
		input_digest     text        NOT NULL,
		execution_mode   text        NOT NULL,
		assumptions_hash text        NOT NULL,
		report           jsonb       NOT NULL,
		created_at       timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS analysis_reports_digest_idx
		ON abs.analysis_reports (input_digest, assumptions_hash, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS analysis_reports_created_idx
		ON abs.analysis_reports (created_at DESC)`,
}

// Repository handles archived report persistence
// ⭐ SSOT: 리포트 아카이브 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new archive repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Schema returns the DDL EnsureSchema runs
func Schema() []string {
	out := make([]string, len(schema))
	copy(out, schema)
	return out
}

// EnsureSchema creates the abs schema and table when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin schema tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// NewRecord prepares a report for archiving under a fresh run id
func NewRecord(rep *contracts.Report, inputDigest string) (*contracts.ArchivedReport, error) {
	body, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	mode := rep.ExecutionMode
	if mode == "" {
		mode = "ERROR"
	}

	return &contracts.ArchivedReport{
		RunID:           uuid.New(),
		InputDigest:     inputDigest,
		ExecutionMode:   mode,
		AssumptionsHash: rep.ModelAssumptionsHash,
		Report:          body,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Save inserts one archived report
func (r *Repository) Save(ctx context.Context, rec *contracts.ArchivedReport) error {
	if rec.RunID == uuid.Nil {
		rec.RunID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO abs.analysis_reports (
			run_id, input_digest, execution_mode, assumptions_hash, report, created_at
		) VALUES ($1::uuid, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.RunID.String(), rec.InputDigest, rec.ExecutionMode, rec.AssumptionsHash,
		[]byte(rec.Report), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// Get retrieves one archived report including its body
func (r *Repository) Get(ctx context.Context, runID uuid.UUID) (*contracts.ArchivedReport, error) {
	query := `
		SELECT run_id::text, input_digest, execution_mode, assumptions_hash, report, created_at
		FROM abs.analysis_reports
		WHERE run_id = $1::uuid
	`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, runID.String()), true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", ErrReportNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return rec, nil
}

// FindByDigest returns the latest run over the same input
func (r *Repository) FindByDigest(ctx context.Context, digest string) (*contracts.ArchivedReport, error) {
	query := `
		SELECT run_id::text, input_digest, execution_mode, assumptions_hash, report, created_at
		FROM abs.analysis_reports
		WHERE input_digest = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, digest), true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: digest %s", ErrReportNotFound, digest)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	return rec, nil
}

// ListRecent returns the newest runs without their report bodies
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*contracts.ArchivedReport, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT run_id::text, input_digest, execution_mode, assumptions_hash, created_at
		FROM abs.analysis_reports
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	records := make([]*contracts.ArchivedReport, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return records, nil
}

func scanRecord(row pgx.Row, withBody bool) (*contracts.ArchivedReport, error) {
	var (
		rec   contracts.ArchivedReport
		runID string
		body  []byte
		err   error
	)

	if withBody {
		err = row.Scan(&runID, &rec.InputDigest, &rec.ExecutionMode, &rec.AssumptionsHash, &body, &rec.CreatedAt)
	} else {
		err = row.Scan(&runID, &rec.InputDigest, &rec.ExecutionMode, &rec.AssumptionsHash, &rec.CreatedAt)
	}
	if err != nil {
		return nil, err
	}

	rec.RunID, err = uuid.Parse(runID)
	if err != nil {
		return nil, fmt.Errorf("invalid run_id %q: %w", runID, err)
	}
	if withBody {
		rec.Report = json.RawMessage(body)
	}
	return &rec, nil
}
