package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	logFormat  string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "abs",
	Short: "AutoVault - TEE 자동차 대출 ABS 분석 엔진",
	Long: `AutoVault ABS Unified CLI

자동차 대출 풀의 신용위험, 현금흐름, 트랜치 구조를 분석합니다.
iExec TEE 배치 실행, HTTP API, 주기 재분석을 하나의 바이너리로 제공.

Usage:
  go run ./cmd/abs [command]

Examples:
  go run ./cmd/abs analyze
  go run ./cmd/abs analyze --strict --in ./testdata --out ./out
  go run ./cmd/abs validate pool.zip
  go run ./cmd/abs api --port 8089
  go run ./cmd/abs reports list`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (json|console)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
