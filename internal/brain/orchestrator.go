package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/autovault/internal/archive"
	"github.com/wonny/autovault/internal/contracts"
	"github.com/wonny/autovault/internal/report"
	"github.com/wonny/autovault/pkg/logger"
)

// Stage names recorded in RunResult.CompletedStages
const (
	StageCollect = "S1:Collect"
	StageBuild   = "S2:Build"
	StageWrite   = "S3:Write"
	StageArchive = "S4:Archive"
)

// Orchestrator coordinates one batch analysis run
// S1 Collect → S2 Build → S3 Write → S4 Archive
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	source  contracts.PoolSource
	builder contracts.ReportBuilder

	// Optional sinks
	writer  contracts.ReportSink       // nil → result.json 미작성
	archive contracts.ReportRepository // nil → 아카이브 생략

	logger *logger.Logger
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID           uuid.UUID
	Success         bool
	Error           error
	CompletedStages []string
	Batch           *contracts.Batch
	Report          *contracts.Report
	InputDigest     string
	ResultPath      string
	Archived        bool
	Duration        time.Duration
}

// NewOrchestrator creates a new orchestrator. writer and repo may be nil.
func NewOrchestrator(
	source contracts.PoolSource,
	builder contracts.ReportBuilder,
	writer contracts.ReportSink,
	repo contracts.ReportRepository,
	log *logger.Logger,
) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		source:  source,
		builder: builder,
		writer:  writer,
		archive: repo,
		logger:  log,
	}
}

// Run executes the pipeline. When a writer is set, computed.json is always
// written: pointing at result.json on success, carrying the error otherwise.
// Archive failures are logged and never fail the run.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	startTime := time.Now()

	result := &RunResult{
		RunID:           uuid.New(),
		CompletedStages: make([]string, 0, 4),
	}

	rlog := o.logger.WithRun(result.RunID.String())
	rlog.Info("Starting TEE ABS analysis run")

	if err := o.run(ctx, result); err != nil {
		result.Error = err
		result.Duration = time.Since(startTime)
		rlog.WithError(err).Error("Analysis run failed")

		if o.writer != nil {
			if werr := o.writer.WriteFailure(err); werr != nil {
				rlog.WithError(werr).Error("computed.json write failed")
			}
		}
		return result, err
	}

	result.Success = true
	result.Duration = time.Since(startTime)

	rlog.WithFields(logger.Fields{
		"duration": result.Duration.Seconds(),
		"stages":   len(result.CompletedStages),
	}).Info("Analysis run completed successfully")

	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, result *RunResult) error {
	// S1: Collect
	batch, err := o.source.Collect(ctx)
	if err != nil {
		return fmt.Errorf("S1 failed: %w", err)
	}
	result.Batch = batch
	result.CompletedStages = append(result.CompletedStages, StageCollect)

	o.logger.WithFields(map[string]interface{}{
		"execution_mode": batch.Mode,
		"pools":          len(batch.Pools),
	}).Info("S1 completed")

	// S2: Build
	rep, err := o.builder.Build(ctx, batch)
	if err != nil {
		return fmt.Errorf("S2 failed: %w", err)
	}
	result.Report = rep
	result.CompletedStages = append(result.CompletedStages, StageBuild)

	digest, err := report.Digest(batch.Pools)
	if err != nil {
		return fmt.Errorf("S2 failed: %w", err)
	}
	result.InputDigest = digest

	// S3: Write
	if o.writer != nil {
		path, err := o.writer.Write(rep)
		if err != nil {
			return fmt.Errorf("S3 failed: %w", err)
		}
		result.ResultPath = path
		result.CompletedStages = append(result.CompletedStages, StageWrite)
		o.logger.Infof("Result written to %s", path)
	}

	// S4: Archive (best effort)
	if o.archive != nil {
		if err := o.runArchive(ctx, result); err != nil {
			o.logger.WithError(err).Warn("S4 skipped: report not archived")
		} else {
			result.Archived = true
			result.CompletedStages = append(result.CompletedStages, StageArchive)
		}
	}

	return nil
}

func (o *Orchestrator) runArchive(ctx context.Context, result *RunResult) error {
	rec, err := archive.NewRecord(result.Report, result.InputDigest)
	if err != nil {
		return err
	}
	rec.RunID = result.RunID

	if err := o.archive.Save(ctx, rec); err != nil {
		return err
	}

	o.logger.WithRun(rec.RunID.String()).WithField("input_digest", rec.InputDigest).Info("S4 completed")
	return nil
}
