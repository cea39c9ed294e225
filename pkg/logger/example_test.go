package logger_test

import (
	"errors"
	"os"

	"github.com/wonny/autovault/pkg/config"
	"github.com/wonny/autovault/pkg/logger"
)

// Example scopes entries to one run and one dataset
func Example() {
	log := logger.NewWithWriter(&config.Config{Env: "production", LogLevel: "info"}, os.Stderr)

	dlog := log.WithRun("6f1c9a4e-0000-4000-8000-000000000000").WithDataset("auto_loan_pool.zip", 1)
	dlog.Info("Loading dataset")
	dlog.WithError(errors.New("zip: not a valid zip file")).Error("Dataset skipped")
	log.Warnf("IEXEC_DATASET_%d_FILENAME not set", 2)
}
