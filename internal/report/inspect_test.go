package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/autovault/internal/abs"
)

func TestInspect(t *testing.T) {
	engine := abs.NewEngine()

	t.Run("clean pools", func(t *testing.T) {
		ins := Inspect(engine, singleBatch(poolA(), poolB()).Pools)

		assert.True(t, ins.Valid)
		require.Len(t, ins.Pools, 2)
		assert.Equal(t, "pools.zip", ins.Pools[0].DatasetName)
		assert.Equal(t, 1, ins.Pools[1].InternalPoolIndex)
		assert.Equal(t, 3, ins.Pools[1].Validation.LoansChecked)
		assert.Empty(t, ins.Pools[1].Lint.Errors)
	})

	t.Run("invalid loan", func(t *testing.T) {
		bad := newLoan("X1", -100, 5, 36, "current", 700)
		ins := Inspect(engine, singleBatch([]abs.Loan{bad}).Pools)

		assert.False(t, ins.Valid)
		require.Len(t, ins.Pools, 1)
		assert.Equal(t, 1, ins.Pools[0].Validation.InvalidLoans)
		assert.Equal(t, []string{"Row 1: Positive principal required"}, ins.Pools[0].Lint.Errors)
	})

	t.Run("empty pool fails lint", func(t *testing.T) {
		ins := Inspect(engine, singleBatch([]abs.Loan{}).Pools)

		assert.False(t, ins.Valid)
		assert.Equal(t, 0, ins.Pools[0].Validation.InvalidLoans)
		assert.False(t, ins.Pools[0].Lint.IsValid)
	})

	t.Run("no pools", func(t *testing.T) {
		ins := Inspect(engine, nil)
		assert.True(t, ins.Valid)
		assert.Empty(t, ins.Pools)
	})
}
