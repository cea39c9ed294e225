package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/autovault/internal/brain"
	"github.com/wonny/autovault/internal/contracts"
	"github.com/wonny/autovault/internal/dataset"
	"github.com/wonny/autovault/internal/report"
	"github.com/wonny/autovault/pkg/config"
	"github.com/wonny/autovault/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "데이터셋 분석 (iApp 배치 진입점)",
	Long: `IEXEC_IN의 데이터셋을 분석해 IEXEC_OUT에 결과를 기록합니다.

이 명령어는:
- IEXEC_BULK_SLICE_SIZE > 0 이면 벌크 모드 (IEXEC_DATASET_<i>_FILENAME)
- 그 외에는 단일 데이터셋 모드 (IEXEC_DATASET_FILENAME)
- 풀별 분석 + 전체 풀 통합 분석
- result.json, computed.json 기록 (실패 시에도 computed.json은 항상 기록)
- DATABASE_URL 설정 시 리포트 아카이브

Example:
  go run ./cmd/abs analyze
  go run ./cmd/abs analyze --strict --workers 8
  go run ./cmd/abs analyze --in ./testdata --out ./out --assumptions config/assumptions/auto_loan_v1.yaml`,
	RunE: runAnalyze,
}

var (
	analyzeStrict      bool
	analyzeWorkers     int
	analyzeAssumptions string
	analyzeIn          string
	analyzeOut         string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().BoolVar(&analyzeStrict, "strict", false, "유효하지 않은 대출을 집계에서 제외")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "풀 병렬 분석 워커 수 (기본: ABS_WORKERS)")
	analyzeCmd.Flags().StringVar(&analyzeAssumptions, "assumptions", "", "모델 가정 YAML (기본: ABS_ASSUMPTIONS_FILE)")
	analyzeCmd.Flags().StringVar(&analyzeIn, "in", "", "입력 디렉터리 (기본: IEXEC_IN)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "출력 디렉터리 (기본: IEXEC_OUT)")
}

// runAnalyze never exits non-zero for analysis failures: the outcome is
// reported through computed.json, which the worker reads.
func runAnalyze(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	outDir := analyzeOut
	if outDir == "" {
		outDir = config.OutputDir()
	}

	cfg, err := loadConfig()
	if err != nil {
		return reportFailure(out, report.NewWriter(outDir), err)
	}

	// Flag overrides
	if analyzeIn != "" {
		cfg.IExec.InputDir = analyzeIn
	}
	cfg.IExec.OutputDir = outDir
	if analyzeWorkers > 0 {
		cfg.Engine.Workers = analyzeWorkers
	}

	log := logger.New(cfg)
	writer := report.NewWriter(cfg.IExec.OutputDir)

	engine, err := newEngine(cfg, log, engineOptions{strict: analyzeStrict, assumptions: analyzeAssumptions})
	if err != nil {
		log.WithError(err).Error("Engine setup failed")
		return reportFailure(out, writer, err)
	}

	builder, err := report.NewBuilder(engine, cfg.Engine.Workers, log)
	if err != nil {
		log.WithError(err).Error("Report builder setup failed")
		return reportFailure(out, writer, err)
	}

	ctx := cmd.Context()
	db, repo := openArchive(ctx, cfg, log)
	defer db.Close()

	collector := dataset.NewCollector(dataset.NewLoader(cfg.IExec.InputDir, log), cfg.IExec)
	orchestrator := brain.NewOrchestrator(collector, builder, writer, repo, log)

	PrintHeader(out, "AutoVault ABS Analysis")
	PrintKeyValue(out, "Input", cfg.IExec.InputDir, 10)
	PrintKeyValue(out, "Output", cfg.IExec.OutputDir, 10)
	PrintKeyValue(out, "Mode", string(engine.Mode()), 10)
	PrintSeparator(out)

	result, err := orchestrator.Run(ctx)
	if err != nil {
		// computed.json은 orchestrator가 이미 기록함
		PrintError(out, fmt.Sprintf("Execution Error: %v", err))
		return nil
	}

	printRunSummary(out, result)
	return nil
}

// reportFailure writes the error computed.json for failures before the pipeline starts
func reportFailure(out io.Writer, writer *report.Writer, cause error) error {
	PrintError(out, fmt.Sprintf("Execution Error: %v", cause))
	if err := writer.WriteFailure(cause); err != nil {
		return fmt.Errorf("write computed.json: %w (after %v)", err, cause)
	}
	PrintWarning(out, "computed.json written with error")
	return nil
}

func printRunSummary(out io.Writer, result *brain.RunResult) {
	rep := result.Report

	if rep.Failed() {
		PrintWarning(out, rep.Error)
	} else {
		printReportTable(out, rep)
	}

	PrintSeparator(out)
	PrintKeyValue(out, "Run ID", result.RunID.String(), 10)
	PrintKeyValue(out, "Result", result.ResultPath, 10)
	PrintKeyValue(out, "Digest", result.InputDigest, 10)
	if result.Archived {
		PrintKeyValue(out, "Archived", "yes", 10)
	}
	PrintSuccess(out, fmt.Sprintf("Analysis completed in %.2fs", result.Duration.Seconds()))
}

func printReportTable(out io.Writer, rep *contracts.Report) {
	PrintTableHeader(out, poolColumns, poolWidths)
	for _, r := range rep.IndividualResults {
		PrintTableRow(out, poolRow(poolLabel(r), r), poolWidths)
	}
	if rep.AggregatedPoolAnalysis != nil {
		PrintTableRow(out, poolRow("AGGREGATED", rep.AggregatedPoolAnalysis), poolWidths)
	}
}
