package abs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCashflow_FullyAmortizesOneYearNote(t *testing.T) {
	summary := &PoolSummary{
		LoanCount:                      1,
		TotalPrincipalUSD:              12000,
		WeightedAvgInterestRate:        12,
		WeightedAvgRemainingTermMonths: 12,
	}

	cf := NewEngine().ProjectCashflow(summary)
	require.NotNil(t, cf)
	require.Empty(t, cf.Error)

	assert.InDelta(t, 12000.00, cf.ProjectedAnnualPrincipal, 0.005)
	// 12 × 1066.1855 − 12000
	assert.InDelta(t, 794.23, cf.ProjectedAnnualInterest, 0.01)
	assert.Equal(t, 12.0, cf.GrossYieldPct)
	assert.Equal(t, 6.0, cf.NetExcessSpreadPct)
}

func TestProjectCashflow_ReferencePool(t *testing.T) {
	engine := NewEngine()
	summary := engine.Aggregate(referencePool())
	cf := engine.ProjectCashflow(summary)
	require.NotNil(t, cf)

	pmt := LevelPayment(15000, 0.005, 32)
	assert.InDelta(t, 12*pmt, cf.ProjectedAnnualPrincipal+cf.ProjectedAnnualInterest, 0.02)
	assert.Less(t, cf.ProjectedAnnualPrincipal, 15000.0)
	assert.Equal(t, 6.0, cf.GrossYieldPct)
	// 6% − 5% − 1% clamps at zero
	assert.Equal(t, 0.0, cf.NetExcessSpreadPct)
}

func TestProjectCashflow_ZeroRateIsStraightLine(t *testing.T) {
	summary := &PoolSummary{LoanCount: 1, TotalPrincipalUSD: 1200, WeightedAvgRemainingTermMonths: 24}

	cf := NewEngine().ProjectCashflow(summary)
	require.NotNil(t, cf)
	assert.Equal(t, 600.0, cf.ProjectedAnnualPrincipal)
	assert.Equal(t, 0.0, cf.ProjectedAnnualInterest)
	assert.Equal(t, 0.0, cf.NetExcessSpreadPct)
}

func TestProjectCashflow_StopsWhenRepaidEarly(t *testing.T) {
	summary := &PoolSummary{
		LoanCount:                      1,
		TotalPrincipalUSD:              6000,
		WeightedAvgInterestRate:        6,
		WeightedAvgRemainingTermMonths: 6,
	}

	cf := NewEngine().ProjectCashflow(summary)
	require.NotNil(t, cf)
	assert.InDelta(t, 6000.0, cf.ProjectedAnnualPrincipal, 0.005)
	assert.Greater(t, cf.ProjectedAnnualInterest, 0.0)
}

func TestProjectCashflow_TermIsZero(t *testing.T) {
	summary := &PoolSummary{LoanCount: 1, TotalPrincipalUSD: 1000, WeightedAvgInterestRate: 5, WeightedAvgRemainingTermMonths: 0.5}

	cf := NewEngine().ProjectCashflow(summary)
	require.NotNil(t, cf)
	assert.Equal(t, TermIsZero, cf.Error)

	data, err := json.Marshal(cf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Term is zero"}`, string(data))
}

func TestProjectCashflow_NoSummary(t *testing.T) {
	engine := NewEngine()
	assert.Nil(t, engine.ProjectCashflow(nil))
	assert.Nil(t, engine.ProjectCashflow(&PoolSummary{LoanCount: 3, Error: ZeroPrincipalPool}))
}

func TestLevelPayment(t *testing.T) {
	assert.InDelta(t, 1066.1855, LevelPayment(12000, 0.01, 12), 0.0001)
	assert.Equal(t, 50.0, LevelPayment(1200, 0, 24))
}
