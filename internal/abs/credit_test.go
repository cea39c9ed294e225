package abs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditRisk_ReferencePool(t *testing.T) {
	credit := NewEngine().CreditRisk(referencePool())
	require.NotNil(t, credit)

	// L1: 10000 × 1.5% × 60% = 90, L2: 5000 × (8% × 2.5) × 60% = 600
	assert.Equal(t, 4.6, credit.BaseExpectedLossPct)
	// L1: 10000 × 3% × 72% = 216, L2: 5000 × 40% × 72% = 1440
	assert.Equal(t, 11.04, credit.StressExpectedLossPct)
	assert.Equal(t, 673, credit.WeightedAvgFICO)

	assert.Equal(t, DelinquencyBreakdown{
		StatusCurrent:   10000,
		Status30DPD:     5000,
		Status60DPD:     0,
		Status90PlusDPD: 0,
		StatusDefault:   0,
	}, credit.DelinquencyBreakdownUSD)

	assert.Equal(t, FICODistribution{
		"<600":    1,
		"600-699": 0,
		"700-799": 1,
		"800+":    0,
	}, credit.FICODistributionCount)
}

func TestCreditRisk_AllDefaultPool(t *testing.T) {
	for _, status := range []string{"default", "DEFAULT", "90+dpd"} {
		t.Run(status, func(t *testing.T) {
			loans := []Loan{
				newLoan("D1", 12000, 9, 36, status, 810),
				newLoan("D2", 3000, 12, 12, status, 540),
			}

			credit := NewEngine().CreditRisk(loans)
			require.NotNil(t, credit)
			assert.Equal(t, 60.00, credit.BaseExpectedLossPct)
			assert.Equal(t, 72.00, credit.StressExpectedLossPct)
		})
	}
}

func TestCreditRisk_ZeroPrincipal(t *testing.T) {
	assert.Nil(t, NewEngine().CreditRisk(nil))
	assert.Nil(t, NewEngine().CreditRisk([]Loan{newLoan("Z", 0, 5, 12, "current", 700)}))
}

func TestCreditRisk_BucketsPartitionPrincipal(t *testing.T) {
	loans := []Loan{
		newLoan("a", 1234.56, 5, 36, "current", 720),
		newLoan("b", 789.01, 5, 36, "30DPD", 650),
		newLoan("c", 2500, 5, 36, "60dpd", 610),
		newLoan("d", 3333.33, 5, 36, "90+dpd", 590),
		newLoan("e", 100.1, 5, 36, "default", 805),
		newLoan("f", 42, 5, 36, "charged-off", 700),
		{LoanID: "g", PrincipalOutstanding: f64(77.7)},
	}

	credit := NewEngine().CreditRisk(loans)
	require.NotNil(t, credit)

	assert.InDelta(t, totalPrincipal(loans), credit.DelinquencyBreakdownUSD.Total(), 1e-9)
	assert.Len(t, credit.DelinquencyBreakdownUSD, len(DelinquencyBuckets))

	// unrecognized status folds into default, absent status is current
	assert.InDelta(t, 100.1+42, credit.DelinquencyBreakdownUSD[StatusDefault], 1e-9)
	assert.InDelta(t, 1234.56+77.7, credit.DelinquencyBreakdownUSD[StatusCurrent], 1e-9)
	assert.InDelta(t, 789.01, credit.DelinquencyBreakdownUSD[Status30DPD], 1e-9)

	var counted int
	for _, n := range credit.FICODistributionCount {
		counted += n
	}
	assert.Equal(t, len(loans), counted)
	// absent FICO counts as 0 in the distribution
	assert.Equal(t, 2, credit.FICODistributionCount["<600"])
}

func TestCreditRisk_UnknownStatusKeepsTablePD(t *testing.T) {
	credit := NewEngine().CreditRisk([]Loan{newLoan("u", 1000, 5, 36, "repossessed", 760)})
	require.NotNil(t, credit)
	// 0.5% × 60% = 0.3%
	assert.Equal(t, 0.3, credit.BaseExpectedLossPct)
	assert.Equal(t, float64(1000), credit.DelinquencyBreakdownUSD[StatusDefault])
}

func TestCreditRisk_MissingFICOUses600ForPD(t *testing.T) {
	loan := Loan{PrincipalOutstanding: f64(1000), PaymentStatus: str("current")}
	credit := NewEngine().CreditRisk([]Loan{loan})
	require.NotNil(t, credit)
	// 4% × 60% = 2.4%
	assert.Equal(t, 2.4, credit.BaseExpectedLossPct)
	assert.Equal(t, 0, credit.WeightedAvgFICO)
}

func TestCreditRisk_WeightedFICOGuardsSmallPrincipal(t *testing.T) {
	// total principal below 1 divides by 1
	credit := NewEngine().CreditRisk([]Loan{newLoan("p", 0.5, 5, 12, "current", 700)})
	require.NotNil(t, credit)
	assert.Equal(t, 350, credit.WeightedAvgFICO)
}

func TestBasePD(t *testing.T) {
	tests := []struct {
		fico float64
		want float64
	}{
		{300, 0.08},
		{599, 0.08},
		{600, 0.04},
		{699, 0.04},
		{700, 0.015},
		{749, 0.015},
		{750, 0.005},
		{850, 0.005},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g", tt.fico), func(t *testing.T) {
			assert.Equal(t, tt.want, BasePD(tt.fico))
		})
	}
}

func TestAdjustPD(t *testing.T) {
	assert.Equal(t, 0.04, AdjustPD(0.04, StatusCurrent))
	assert.InDelta(t, 0.1, AdjustPD(0.04, Status30DPD), 1e-12)
	assert.InDelta(t, 0.2, AdjustPD(0.04, Status60DPD), 1e-12)
	assert.Equal(t, 1.0, AdjustPD(0.04, Status90PlusDPD))
	assert.Equal(t, 1.0, AdjustPD(0.005, StatusDefault))
	assert.Equal(t, 0.04, AdjustPD(0.04, PaymentStatus("unknown")))
}

func TestFICOBandLabel(t *testing.T) {
	assert.Equal(t, "<600", FICOBandLabel(0))
	assert.Equal(t, "<600", FICOBandLabel(599))
	assert.Equal(t, "600-699", FICOBandLabel(600))
	assert.Equal(t, "700-799", FICOBandLabel(799))
	assert.Equal(t, "800+", FICOBandLabel(800))
}
