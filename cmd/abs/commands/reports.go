package commands

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wonny/autovault/internal/archive"
	"github.com/wonny/autovault/internal/contracts"
	"github.com/wonny/autovault/pkg/logger"
)

// reportsCmd represents the reports command
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "아카이브된 분석 리포트 조회",
	Long: `DATABASE_URL의 리포트 아카이브를 조회합니다.

Subcommands:
  list            - 최근 실행 목록
  show <run_id>   - 리포트 상세 (입력 digest로도 조회 가능)

Example:
  go run ./cmd/abs reports list --limit 50
  go run ./cmd/abs reports show 6f1c9a4e-...
  go run ./cmd/abs reports show 6f1c9a4e-... --raw`,
}

var (
	reportsListCmd = &cobra.Command{
		Use:   "list",
		Short: "최근 실행 목록",
		RunE:  listReports,
	}

	reportsShowCmd = &cobra.Command{
		Use:   "show <run_id|input_digest>",
		Short: "리포트 상세",
		Args:  cobra.ExactArgs(1),
		RunE:  showReport,
	}
)

var (
	reportsLimit int
	reportsRaw   bool
)

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)

	reportsListCmd.Flags().IntVar(&reportsLimit, "limit", archive.DefaultListLimit, "조회 건수")
	reportsShowCmd.Flags().BoolVar(&reportsRaw, "raw", false, "저장된 JSON 그대로 출력")
}

func listReports(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	db, repo, err := requireArchive(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repo.ListRecent(cmd.Context(), reportsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		PrintWarning(out, "No archived reports")
		return nil
	}

	columns := []string{"Run ID", "Created", "Mode", "Input Digest"}
	widths := []int{36, 19, 14, 16}
	PrintTableHeader(out, columns, widths)
	for _, rec := range records {
		PrintTableRow(out, []string{
			rec.RunID.String(),
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			rec.ExecutionMode,
			shortDigest(rec.InputDigest),
		}, widths)
	}
	fmt.Fprintf(out, "\n%d report(s)\n", len(records))
	return nil
}

func showReport(cmd *cobra.Command, args []string) error {
	key := args[0]
	runID, err := uuid.Parse(key)
	byDigest := err != nil
	if byDigest && !isDigest(key) {
		return fmt.Errorf("invalid run_id or input digest %q", key)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	db, repo, err := requireArchive(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	var rec *contracts.ArchivedReport
	if byDigest {
		rec, err = repo.FindByDigest(cmd.Context(), key)
	} else {
		rec, err = repo.Get(cmd.Context(), runID)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reportsRaw {
		var buf bytes.Buffer
		if err := json.Indent(&buf, rec.Report, "", "  "); err != nil {
			return fmt.Errorf("stored report is not valid JSON: %w", err)
		}
		fmt.Fprintln(out, buf.String())
		return nil
	}

	var rep contracts.Report
	if err := json.Unmarshal(rec.Report, &rep); err != nil {
		return fmt.Errorf("decode stored report: %w", err)
	}

	PrintHeader(out, "Report "+rec.RunID.String())
	PrintKeyValue(out, "Created", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"), 12)
	PrintKeyValue(out, "Mode", rec.ExecutionMode, 12)
	PrintKeyValue(out, "Digest", rec.InputDigest, 12)
	PrintKeyValue(out, "Assumptions", rec.AssumptionsHash, 12)
	PrintSeparator(out)

	if rep.Failed() {
		PrintWarning(out, rep.Error)
		return nil
	}
	printReportTable(out, &rep)
	return nil
}

// isDigest matches a hex SHA-256 input digest
func isDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func shortDigest(d string) string {
	if len(d) > 16 {
		return d[:16]
	}
	return d
}
