package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wonny/autovault/internal/contracts"
	"github.com/wonny/autovault/internal/dataset"
	"github.com/wonny/autovault/internal/report"
	"github.com/wonny/autovault/pkg/logger"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "데이터셋 검증 (분석 없음)",
	Long: `데이터셋 파일(ZIP 또는 JSON)의 대출을 검증합니다.

이 명령어는:
- 대출 검증기 결과 (누락 필드, 음수 원금, 만기, 고금리)
- 업로드 lint 결과 (오류/경고, 정규화)
- 하나라도 실패하면 exit code 1

Example:
  go run ./cmd/abs validate pool.zip
  go run ./cmd/abs validate loans.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var (
	validateStrict bool
	validateJSON   bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "strict 검증 모드로 보고")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "JSON 출력")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	engine, err := newEngine(cfg, log, engineOptions{strict: validateStrict})
	if err != nil {
		return err
	}

	path := args[0]
	loader := dataset.NewLoader(filepath.Dir(path), log)
	loanPools, err := loader.Load(cmd.Context(), filepath.Base(path))
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	pools := make([]contracts.Pool, len(loanPools))
	for i, loans := range loanPools {
		pools[i] = contracts.Pool{
			DatasetName: filepath.Base(path),
			PoolIndex:   i,
			Loans:       loans,
		}
	}

	ins := report.Inspect(engine, pools)

	out := cmd.OutOrStdout()
	if validateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ins); err != nil {
			return err
		}
	} else {
		printInspection(out, path, ins)
	}

	if !ins.Valid {
		return fmt.Errorf("%s: validation failed", path)
	}
	return nil
}

func printInspection(out io.Writer, path string, ins *report.Inspection) {
	PrintHeader(out, "Loan Validation: "+filepath.Base(path))

	for _, p := range ins.Pools {
		fmt.Fprintf(out, "\n📊 Pool #%d\n", p.InternalPoolIndex)
		PrintKeyValue(out, "Loans", fmt.Sprintf("%d", p.Validation.LoansChecked), 12)
		PrintKeyValue(out, "Invalid", fmt.Sprintf("%d", p.Validation.InvalidLoans), 12)
		PrintKeyValue(out, "Warnings", fmt.Sprintf("%d", p.Validation.Warnings), 12)
		PrintKeyValue(out, "Lint passed", fmt.Sprintf("%d", len(p.Lint.Loans)), 12)

		for _, f := range p.Validation.Findings {
			label := f.LoanID
			if label == "" {
				label = fmt.Sprintf("index %d", f.Index)
			}
			status := "warning"
			if !f.Valid {
				status = "invalid"
			}
			for _, issue := range f.Issues {
				fmt.Fprintf(out, "   • [%s] %s: %s\n", status, label, issue)
			}
		}

		if len(p.Lint.Errors) > 0 {
			fmt.Fprintln(out, "   Lint errors:")
			PrintList(out, p.Lint.Errors)
		}
		if len(p.Lint.Warnings) > 0 {
			fmt.Fprintln(out, "   Lint warnings:")
			PrintList(out, p.Lint.Warnings)
		}
	}

	fmt.Fprintln(out)
	PrintSeparator(out)
	if ins.Valid {
		PrintSuccess(out, "All pools passed validation")
	} else {
		PrintError(out, "Validation failed")
	}
}
