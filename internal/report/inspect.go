package report

import (
	"github.com/wonny/autovault/internal/abs"
	"github.com/wonny/autovault/internal/contracts"
	"github.com/wonny/autovault/internal/dataset"
)

// PoolValidation validator findings and intake lint for one pool
type PoolValidation struct {
	DatasetName       string                `json:"dataset_name,omitempty"`
	InternalPoolIndex int                   `json:"internal_pool_index"`
	Lint              *dataset.LintResult   `json:"lint"`
	Validation        *abs.ValidationReport `json:"validation"`
}

// Inspection is the validate-only view of a set of pools
type Inspection struct {
	Pools []PoolValidation `json:"pools"`
	Valid bool             `json:"valid"`
}

// Inspect runs the loan validator and the intake lint over every pool
// without analysing. Empty pools are inspected too: lint reports them.
func Inspect(engine *abs.Engine, pools []contracts.Pool) *Inspection {
	ins := &Inspection{
		Pools: make([]PoolValidation, 0, len(pools)),
		Valid: true,
	}
	for _, p := range pools {
		validation, _ := engine.ValidatePool(p.Loans)
		lint := dataset.Lint(p.Loans)

		if validation.InvalidLoans > 0 || !lint.IsValid {
			ins.Valid = false
		}
		ins.Pools = append(ins.Pools, PoolValidation{
			DatasetName:       p.DatasetName,
			InternalPoolIndex: p.PoolIndex,
			Lint:              lint,
			Validation:        validation,
		})
	}
	return ins
}
