package abs

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

// newLoan builds a loan with every required field present.
func newLoan(id string, principal, rate, term float64, status string, fico float64) Loan {
	return Loan{
		LoanID:               id,
		PrincipalOutstanding: f64(principal),
		InterestRateAnnual:   f64(rate),
		RemainingTermMonths:  f64(term),
		PaymentStatus:        str(status),
		FicoBucket:           f64(fico),
	}
}

func referencePool() []Loan {
	return []Loan{
		newLoan("L1", 10000, 5, 36, "current", 720),
		newLoan("L2", 5000, 8, 24, "30dpd", 580),
	}
}
