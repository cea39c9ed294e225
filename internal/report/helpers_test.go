package report

import (
	"github.com/wonny/autovault/internal/abs"
	"github.com/wonny/autovault/internal/contracts"
)

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

func newLoan(id string, principal, rate, term float64, status string, fico float64) abs.Loan {
	return abs.Loan{
		LoanID:               id,
		PrincipalOutstanding: f64(principal),
		InterestRateAnnual:   f64(rate),
		RemainingTermMonths:  f64(term),
		PaymentStatus:        str(status),
		FicoBucket:           f64(fico),
	}
}

func poolA() []abs.Loan {
	return []abs.Loan{
		newLoan("A1", 10000, 5, 36, "current", 720),
		newLoan("A2", 5000, 8, 24, "30dpd", 580),
	}
}

func poolB() []abs.Loan {
	return []abs.Loan{
		newLoan("B1", 20000, 4.5, 60, "current", 790),
		newLoan("B2", 7500, 11, 48, "60dpd", 640),
		newLoan("B3", 3000, 14, 18, "default", 560),
	}
}

func singleBatch(pools ...[]abs.Loan) *contracts.Batch {
	b := &contracts.Batch{Mode: contracts.ModeSingleFile}
	for i, loans := range pools {
		b.Pools = append(b.Pools, contracts.Pool{
			DatasetName:  "pools.zip",
			DatasetIndex: 0,
			PoolIndex:    i,
			Loans:        loans,
		})
	}
	return b
}
