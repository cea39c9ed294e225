package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/autovault/internal/contracts"
	"github.com/wonny/autovault/pkg/config"
)

// Collector gathers the pools of one iExec task according to its I/O env
type Collector struct {
	loader *Loader
	cfg    config.IExecConfig
}

// NewCollector creates a collector; it implements contracts.PoolSource
func NewCollector(loader *Loader, cfg config.IExecConfig) *Collector {
	return &Collector{loader: loader, cfg: cfg}
}

// Collect runs bulk mode when IEXEC_BULK_SLICE_SIZE > 0, single mode otherwise.
// A dataset that is missing, corrupt or in an unknown format is logged and
// contributes no pools. A loan with a mistyped field (ErrMalformedLoan) and
// context cancellation abort the run.
func (c *Collector) Collect(ctx context.Context) (*contracts.Batch, error) {
	if c.cfg.BulkMode() {
		return c.collectBulk(ctx)
	}
	return c.collectSingle(ctx)
}

func (c *Collector) collectBulk(ctx context.Context) (*contracts.Batch, error) {
	log := c.loader.log
	log.Infof("Processing in bulk mode: %d datasets", c.cfg.BulkSliceSize)

	batch := &contracts.Batch{
		Mode:              contracts.ModeBulk,
		DatasetsProcessed: c.cfg.BulkSliceSize,
	}

	for i := 1; i <= c.cfg.BulkSliceSize; i++ {
		filename := ""
		if i-1 < len(c.cfg.BulkDatasets) {
			filename = c.cfg.BulkDatasets[i-1]
		}
		if filename == "" {
			log.Warnf("IEXEC_DATASET_%d_FILENAME not set", i)
			continue
		}

		pools, err := c.load(ctx, filename, i)
		if err != nil {
			return nil, err
		}
		batch.Pools = append(batch.Pools, pools...)
	}

	return batch, nil
}

func (c *Collector) collectSingle(ctx context.Context) (*contracts.Batch, error) {
	log := c.loader.log
	log.Info("Processing in single dataset mode")

	batch := &contracts.Batch{Mode: contracts.ModeSingleFile}
	if c.cfg.DatasetFilename == "" {
		log.Warn("IEXEC_DATASET_FILENAME not set")
		return batch, nil
	}

	pools, err := c.load(ctx, c.cfg.DatasetFilename, 0)
	if err != nil {
		return nil, err
	}
	batch.Pools = pools
	return batch, nil
}

func (c *Collector) load(ctx context.Context, filename string, datasetIndex int) ([]contracts.Pool, error) {
	log := c.loader.log.WithDataset(filename, datasetIndex)
	log.Info("Loading dataset")

	loanPools, err := c.loader.Load(ctx, filename)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if errors.Is(err, ErrMalformedLoan) {
			log.WithError(err).Error("Dataset rejected")
			return nil, fmt.Errorf("dataset %s: %w", filename, err)
		}
		log.WithError(err).Error("Dataset skipped")
		return nil, nil
	}

	pools := make([]contracts.Pool, 0, len(loanPools))
	for idx, loans := range loanPools {
		pools = append(pools, contracts.Pool{
			DatasetName:  filename,
			DatasetIndex: datasetIndex,
			PoolIndex:    idx,
			Loans:        loans,
		})
	}
	return pools, nil
}
