package main

import (
	"os"

	"github.com/wonny/autovault/cmd/abs/commands"
)

// main is the entry point for the ABS analytics CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/abs [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
