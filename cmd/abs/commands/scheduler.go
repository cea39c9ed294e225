package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/autovault/internal/brain"
	"github.com/wonny/autovault/internal/dataset"
	"github.com/wonny/autovault/internal/report"
	"github.com/wonny/autovault/internal/scheduler"
	"github.com/wonny/autovault/internal/scheduler/jobs"
	"github.com/wonny/autovault/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "주기 재분석 스케줄러 시작",
	Long: `IEXEC_IN의 데이터셋을 주기적으로 재분석합니다.

등록되는 작업:
- abs_analysis: ABS_SCHEDULE (기본 매시 정각, seconds 필드 포함)

매 실행마다 result.json/computed.json을 갱신하고
DATABASE_URL 설정 시 리포트를 아카이브합니다.
스케줄러는 Ctrl+C로 종료할 수 있습니다.

Example:
  go run ./cmd/abs scheduler
  go run ./cmd/abs scheduler --cron "0 */15 * * * *"
  go run ./cmd/abs scheduler --once`,
	RunE: runScheduler,
}

var (
	schedulerCron string
	schedulerOnce bool
)

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().StringVar(&schedulerCron, "cron", "", "cron spec, seconds 필드 포함 (기본: ABS_SCHEDULE)")
	schedulerCmd.Flags().BoolVar(&schedulerOnce, "once", false, "작업을 한 번 즉시 실행 후 종료")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== AutoVault ABS Scheduler ===")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if schedulerCron != "" {
		cfg.Engine.Schedule = schedulerCron
	}
	if err := scheduler.ValidateSchedule(cfg.Engine.Schedule); err != nil {
		return err
	}

	log := logger.New(cfg)

	engine, err := newEngine(cfg, log, engineOptions{})
	if err != nil {
		return err
	}
	builder, err := report.NewBuilder(engine, cfg.Engine.Workers, log)
	if err != nil {
		return fmt.Errorf("create report builder: %w", err)
	}

	ctx := cmd.Context()
	db, repo := openArchive(ctx, cfg, log)
	defer db.Close()

	collector := dataset.NewCollector(dataset.NewLoader(cfg.IExec.InputDir, log), cfg.IExec)
	orchestrator := brain.NewOrchestrator(collector, builder, report.NewWriter(cfg.IExec.OutputDir), repo, log)

	sched := scheduler.New(log)
	job := jobs.NewAnalysisJob(orchestrator, cfg.Engine.Schedule, log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("register job: %w", err)
	}

	if schedulerOnce {
		result, err := sched.RunNow(ctx, job.Name())
		if err != nil {
			return err
		}
		printJobStats(out, sched.GetJobStats())
		if !result.Success {
			return fmt.Errorf("%s failed: %s", result.JobName, result.Error)
		}
		return nil
	}

	sched.Start()

	fmt.Fprintln(out, "\n✅ Scheduler started successfully")
	fmt.Fprintln(out, "\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		next, _ := sched.NextRun(jobName)
		fmt.Fprintf(out, "  - %s (next: %s)\n", jobName, next.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)
	<-quit

	fmt.Fprintln(out, "\nShutting down scheduler...")
	sched.Stop()
	printJobStats(out, sched.GetJobStats())
	fmt.Fprintln(out, "Scheduler stopped")

	return nil
}

func printJobStats(out io.Writer, stats map[string]scheduler.JobStats) {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "\nJob Statistics:")
	for _, name := range names {
		stat := stats[name]
		fmt.Fprintf(out, "📊 %s\n", name)
		fmt.Fprintf(out, "   Schedule: %s\n", stat.Schedule)
		fmt.Fprintf(out, "   Total Runs: %d\n", stat.TotalRuns)
		fmt.Fprintf(out, "   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Fprintf(out, "   Failures: %d\n", stat.FailureCount)

		if stat.LastSuccess != nil {
			fmt.Fprintf(out, "   Last Success: %s\n", stat.LastSuccess.Format("2006-01-02 15:04:05"))
		}
		if stat.LastFailure != nil {
			fmt.Fprintf(out, "   Last Failure: %s\n", stat.LastFailure.Format("2006-01-02 15:04:05"))
		}
	}
}
