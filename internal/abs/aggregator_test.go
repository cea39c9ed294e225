package abs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_ReferencePool(t *testing.T) {
	summary := NewEngine().Aggregate(referencePool())
	require.NotNil(t, summary)
	require.True(t, summary.Valid())

	assert.Equal(t, 2, summary.LoanCount)
	assert.Equal(t, 15000.00, summary.TotalPrincipalUSD)
	assert.Equal(t, 6.0, summary.WeightedAvgInterestRate)
	assert.Equal(t, 32.0, summary.WeightedAvgRemainingTermMonths)
	assert.Equal(t, 1.6, summary.WeightedAvgLifeYears)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Nil(t, NewEngine().Aggregate(nil))
	assert.Nil(t, NewEngine().Aggregate([]Loan{}))
}

func TestAggregate_ZeroPrincipalPool(t *testing.T) {
	loans := []Loan{
		newLoan("Z1", 0, 5, 36, "current", 700),
		newLoan("Z2", 0, 9, 12, "current", 700),
	}

	summary := NewEngine().Aggregate(loans)
	require.NotNil(t, summary)
	assert.False(t, summary.Valid())
	assert.Equal(t, ZeroPrincipalPool, summary.Error)
	assert.Equal(t, 2, summary.LoanCount)

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Zero Principal Pool","loan_count":2}`, string(data))
}

func TestAggregate_WeightedAveragesAreBounded(t *testing.T) {
	pools := map[string][]Loan{
		"single": {newLoan("S", 4321.5, 7.25, 48, "current", 700)},
		"mixed": {
			newLoan("A", 55000, 4.9, 48, "current", 820),
			newLoan("B", 28500, 5.25, 60, "current", 720),
			newLoan("C", 15400, 8.5, 36, "30dpd", 640),
			newLoan("D", 42100, 4.15, 72, "current", 780),
		},
		"skewed": {
			newLoan("big", 1_000_000, 3.1, 84, "current", 800),
			newLoan("tiny", 1, 29.9, 1, "current", 500),
		},
	}

	for name, loans := range pools {
		t.Run(name, func(t *testing.T) {
			summary := NewEngine().Aggregate(loans)
			require.True(t, summary.Valid())

			minRate, maxRate := loans[0].RatePct(), loans[0].RatePct()
			minTerm, maxTerm := loans[0].TermMonths(), loans[0].TermMonths()
			for _, l := range loans[1:] {
				minRate = min(minRate, l.RatePct())
				maxRate = max(maxRate, l.RatePct())
				minTerm = min(minTerm, l.TermMonths())
				maxTerm = max(maxTerm, l.TermMonths())
			}

			// rounding may nudge an exact bound by half a unit in the last place
			assert.GreaterOrEqual(t, summary.WeightedAvgInterestRate, minRate-0.00005)
			assert.LessOrEqual(t, summary.WeightedAvgInterestRate, maxRate+0.00005)
			assert.GreaterOrEqual(t, summary.WeightedAvgRemainingTermMonths, minTerm-0.005)
			assert.LessOrEqual(t, summary.WeightedAvgRemainingTermMonths, maxTerm+0.005)
		})
	}
}

func TestAggregate_MissingPrincipalCountsAsZero(t *testing.T) {
	loans := referencePool()
	loans = append(loans, Loan{LoanID: "ghost"})

	summary := NewEngine().Aggregate(loans)
	require.True(t, summary.Valid())
	assert.Equal(t, 3, summary.LoanCount)
	assert.Equal(t, 15000.00, summary.TotalPrincipalUSD)
	assert.Equal(t, 6.0, summary.WeightedAvgInterestRate)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	loans := referencePool()
	before, err := json.Marshal(loans)
	require.NoError(t, err)

	NewEngine().Analyze(loans)

	after, err := json.Marshal(loans)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}
