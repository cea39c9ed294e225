package abs

import "fmt"

// requiredFields 필수 필드 검사 순서 (첫 누락 필드에서 즉시 실패)
var requiredFields = []struct {
	Name    string
	Present func(Loan) bool
}{
	{"principal_outstanding", func(l Loan) bool { return l.PrincipalOutstanding != nil }},
	{"interest_rate_annual", func(l Loan) bool { return l.InterestRateAnnual != nil }},
	{"remaining_term_months", func(l Loan) bool { return l.RemainingTermMonths != nil }},
	{"payment_status", func(l Loan) bool { return l.PaymentStatus != nil }},
	{"fico_bucket", func(l Loan) bool { return l.FicoBucket != nil }},
}

// Validate 단일 대출 검증 (fail-closed)
// 누락 필드 → 첫 필드 하나만 보고하고 invalid.
// 이후 순서대로: 음수 원금 → invalid, 만기 ≤ 0 → invalid, 고금리 → valid + 경고.
func (e *Engine) Validate(loan Loan) (bool, []string) {
	for _, f := range requiredFields {
		if !f.Present(loan) {
			return false, []string{fmt.Sprintf("Missing field: %s", f.Name)}
		}
	}

	if loan.Principal() < 0 {
		return false, []string{"Negative Principal"}
	}
	if loan.TermMonths() <= 0 {
		return false, []string{"Term <= 0"}
	}

	warnings := make([]string, 0)
	if loan.RatePct() > e.assumptions.HighRatePct {
		warnings = append(warnings, fmt.Sprintf("High Interest Rate (>%g%%)", e.assumptions.HighRatePct))
	}

	return true, warnings
}

// ValidatePool validates every loan and returns the report plus the loans
// that feed aggregation: all of them in lenient mode, only valid ones in strict mode.
func (e *Engine) ValidatePool(loans []Loan) (*ValidationReport, []Loan) {
	report := &ValidationReport{
		Findings:     make([]LoanFinding, 0),
		LoansChecked: len(loans),
		Mode:         e.mode,
	}

	accepted := loans
	if e.mode == ValidationStrict {
		accepted = make([]Loan, 0, len(loans))
	}

	for i, loan := range loans {
		valid, issues := e.Validate(loan)
		if !valid {
			report.InvalidLoans++
		} else {
			report.Warnings += len(issues)
			if e.mode == ValidationStrict {
				accepted = append(accepted, loan)
			}
		}

		if len(issues) > 0 {
			report.Findings = append(report.Findings, LoanFinding{
				Index:  i,
				Issues: issues,
				LoanID: loan.LoanID,
				Valid:  valid,
			})
		}
	}

	return report, accepted
}
