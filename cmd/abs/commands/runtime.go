package commands

import (
	"context"
	"fmt"

	"github.com/wonny/autovault/internal/abs"
	"github.com/wonny/autovault/internal/archive"
	"github.com/wonny/autovault/internal/contracts"
	"github.com/wonny/autovault/internal/modelconfig"
	"github.com/wonny/autovault/pkg/config"
	"github.com/wonny/autovault/pkg/database"
	"github.com/wonny/autovault/pkg/logger"
)

// engineOptions are the per-command engine overrides
type engineOptions struct {
	strict      bool
	assumptions string
}

// loadConfig reads the environment and applies the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	return cfg, nil
}

// newEngine builds the engine from config, flag overrides and the assumptions file
func newEngine(cfg *config.Config, log *logger.Logger, opts engineOptions) (*abs.Engine, error) {
	mode, ok := abs.ParseValidationMode(cfg.Engine.ValidationMode)
	if !ok {
		return nil, fmt.Errorf("unknown validation mode %q", cfg.Engine.ValidationMode)
	}
	if opts.strict {
		mode = abs.ValidationStrict
	}

	path := cfg.Engine.AssumptionsFile
	if opts.assumptions != "" {
		path = opts.assumptions
	}

	assumptions, err := modelconfig.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("load assumptions: %w", err)
	}

	for _, w := range modelconfig.Warn(assumptions) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	log.WithFields(map[string]interface{}{
		"validation_mode": string(mode),
		"assumptions":     assumptionsLabel(path),
	}).Debug("ABS engine configured")

	return abs.NewEngine(
		abs.WithAssumptions(assumptions),
		abs.WithValidationMode(mode),
	), nil
}

func assumptionsLabel(path string) string {
	if path == "" {
		return "default"
	}
	return path
}

// openArchive connects the report archive when DATABASE_URL is set.
// Connection or schema failures disable the archive instead of failing the command.
func openArchive(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, contracts.ReportRepository) {
	if !cfg.Database.Enabled() {
		return nil, nil
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Report archive unavailable")
		return nil, nil
	}

	repo := archive.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.WithError(err).Warn("Report archive schema setup failed")
		db.Close()
		return nil, nil
	}

	log.Info("Connected to report archive")
	return db, repo
}

// requireArchive is openArchive for commands that cannot run without it
func requireArchive(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, contracts.ReportRepository, error) {
	if !cfg.Database.Enabled() {
		return nil, nil, fmt.Errorf("report archive disabled: set DATABASE_URL")
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, archive.NewRepository(db.Pool), nil
}
