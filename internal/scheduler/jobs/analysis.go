package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/autovault/internal/brain"
	"github.com/wonny/autovault/pkg/logger"
)

// DefaultAnalysisSchedule runs at the top of every hour
const DefaultAnalysisSchedule = "0 0 * * * *"

// Runner runs one analysis pipeline
type Runner interface {
	Run(ctx context.Context) (*brain.RunResult, error)
}

// AnalysisJob re-runs the ABS analysis pipeline over the input directory
type AnalysisJob struct {
	runner   Runner
	schedule string
	logger   *logger.Logger
}

// NewAnalysisJob creates a new analysis job. An empty schedule uses DefaultAnalysisSchedule.
func NewAnalysisJob(runner Runner, schedule string, log *logger.Logger) *AnalysisJob {
	if schedule == "" {
		schedule = DefaultAnalysisSchedule
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AnalysisJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *AnalysisJob) Name() string {
	return "abs_analysis"
}

// Schedule returns the cron schedule
func (j *AnalysisJob) Schedule() string {
	return j.schedule
}

// Run executes the analysis pipeline
func (j *AnalysisJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled ABS analysis")

	result, err := j.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("abs analysis: %w", err)
	}

	fields := map[string]interface{}{
		"run_id":   result.RunID.String(),
		"duration": result.Duration.Seconds(),
		"archived": result.Archived,
	}
	if result.Report != nil {
		fields["pools"] = result.Report.Count()
	}
	j.logger.WithFields(fields).Info("Scheduled ABS analysis completed")

	return nil
}
