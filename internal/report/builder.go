package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/autovault/internal/abs"
	"github.com/wonny/autovault/internal/contracts"
	"github.com/wonny/autovault/internal/modelconfig"
	"github.com/wonny/autovault/pkg/logger"
)

// DefaultWorkers is used when ABS_WORKERS is unset or invalid
const DefaultWorkers = 4

// Builder runs the engine over every pool of a batch and assembles the report
// ⭐ SSOT: 리포트 조립은 여기서만
type Builder struct {
	engine          *abs.Engine
	workers         int
	assumptionsHash string
	log             *logger.Logger
}

// NewBuilder creates a builder. workers <= 0 falls back to DefaultWorkers.
func NewBuilder(engine *abs.Engine, workers int, log *logger.Logger) (*Builder, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = logger.Nop()
	}

	hash, err := modelconfig.ReportHash(engine.Assumptions(), engine.Mode())
	if err != nil {
		return nil, fmt.Errorf("hash model assumptions: %w", err)
	}

	return &Builder{
		engine:          engine,
		workers:         workers,
		assumptionsHash: hash,
		log:             log,
	}, nil
}

// AssumptionsHash is the model_assumptions_hash stamped on every report.
// It covers the validation mode too, so it is safe as a cache key component.
func (b *Builder) AssumptionsHash() string {
	return b.assumptionsHash
}

// Build analyses each non-empty pool and the concatenation of all pools.
// Per-pool results keep input order regardless of completion order.
func (b *Builder) Build(ctx context.Context, batch *contracts.Batch) (*contracts.Report, error) {
	pools := batch.NonEmptyPools()
	results := make([]*abs.AnalysisResult, len(pools))
	var aggregate *abs.AnalysisResult

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, pool := range pools {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := b.engine.Analyze(pool.Loans)
			if r != nil {
				results[i] = r.WithSource(pool.DatasetName, pool.DatasetIndex, pool.PoolIndex)
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		aggregate = b.engine.Analyze(batch.AllLoans())
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := b.assemble(batch, results, aggregate)

	b.log.WithFields(map[string]interface{}{
		"execution_mode": batch.Mode,
		"pools":          len(results),
		"loans":          len(batch.AllLoans()),
		"failed":         rep.Failed(),
	}).Info("Report assembled")

	return rep, nil
}

func (b *Builder) assemble(batch *contracts.Batch, results []*abs.AnalysisResult, aggregate *abs.AnalysisResult) *contracts.Report {
	rep := &contracts.Report{
		Confidence:           contracts.ConfidenceMedium,
		ModelAssumptionsHash: b.assumptionsHash,
		PrivacyGuarantee:     contracts.TEEPrivacyGuarantee(),
	}

	switch batch.Mode {
	case contracts.ModeBulk:
		// bulk: 결과가 없어도 에러 아님 (aggregated = null)
		n := batch.DatasetsProcessed
		rep.ExecutionMode = batch.Mode
		rep.DatasetsProcessed = &n
		rep.IndividualResults = results
		rep.AggregatedPoolAnalysis = aggregate
	default:
		if len(results) == 0 {
			rep.Error = contracts.NoValidLoanData
			return rep
		}
		n := len(results)
		rep.ExecutionMode = batch.Mode
		rep.PoolsFound = &n
		rep.IndividualResults = results
		rep.AggregatedPoolAnalysis = aggregate
	}

	return rep
}
