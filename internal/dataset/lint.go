package dataset

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/wonny/autovault/internal/abs"
)

// Intake lint thresholds
const (
	lintHighRatePct  = 30.0
	lintLongTermMo   = 84
	lintMinFICO      = 300
	lintMaxFICO      = 850
	defaultVehicle   = "ICE"
	noDataLintReason = "No data provided."
)

var validVehicleTypes = []string{"ICE", "EV", "Hybrid"}

// LintResult intake check outcome. Loans holds the normalized rows that passed.
type LintResult struct {
	IsValid  bool       `json:"is_valid"`
	Loans    []abs.Loan `json:"loans"`
	Errors   []string   `json:"errors"`
	Warnings []string   `json:"warnings"`
}

// Lint checks raw rows the way the upload form does before a dataset is
// protected. It stops at the first error of a row; warnings raised before
// that error are kept. Lint never affects the analytics.
func Lint(loans []abs.Loan) *LintResult {
	res := &LintResult{
		Loans:    []abs.Loan{},
		Errors:   []string{},
		Warnings: []string{},
	}
	if len(loans) == 0 {
		res.Errors = append(res.Errors, noDataLintReason)
		return res
	}

	for i, loan := range loans {
		clean, err := lintRow(i+1, loan, &res.Warnings)
		if err != "" {
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Loans = append(res.Loans, clean)
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

func lintRow(row int, loan abs.Loan, warnings *[]string) (abs.Loan, string) {
	if strings.TrimSpace(loan.LoanID) == "" {
		return loan, fmt.Sprintf("Row %d: Missing loan_id", row)
	}

	principal := loan.PrincipalOutstanding
	if principal == nil || math.IsNaN(*principal) || *principal <= 0 {
		return loan, fmt.Sprintf("Row %d: Positive principal required", row)
	}

	rate := loan.InterestRateAnnual
	if rate == nil || math.IsNaN(*rate) || *rate < 0 {
		return loan, fmt.Sprintf("Row %d: Interest rate must be positive", row)
	}
	if *rate > lintHighRatePct {
		*warnings = append(*warnings, fmt.Sprintf("Row %d: High Interest Rate (>30%%)", row))
	}

	if loan.RemainingTermMonths == nil {
		return loan, fmt.Sprintf("Row %d: Term must be > 0", row)
	}
	term := math.Trunc(*loan.RemainingTermMonths)
	if term <= 0 {
		return loan, fmt.Sprintf("Row %d: Term must be > 0", row)
	}
	if term > lintLongTermMo {
		*warnings = append(*warnings, fmt.Sprintf("Row %d: Unusually long term (%d months)", row, int(term)))
	}

	if loan.FicoBucket == nil {
		return loan, fmt.Sprintf("Row %d: Valid FICO (300-850) required", row)
	}
	fico := math.Trunc(*loan.FicoBucket)
	if fico < lintMinFICO || fico > lintMaxFICO {
		return loan, fmt.Sprintf("Row %d: Valid FICO (300-850) required", row)
	}

	vehicle := strings.TrimSpace(loan.VehicleType)
	if !slices.Contains(validVehicleTypes, vehicle) {
		*warnings = append(*warnings, fmt.Sprintf("Row %d: Unknown vehicle type '%s', defaulting to %s", row, vehicle, defaultVehicle))
		vehicle = defaultVehicle
	}

	status := ""
	if loan.PaymentStatus != nil {
		status = *loan.PaymentStatus
	}
	parsed, ok := abs.ParseStatus(strings.TrimSpace(status))
	if !ok {
		return loan, fmt.Sprintf("Row %d: Invalid payment_status. Allowed: %s", row, allowedStatuses())
	}

	// 정규화된 사본 (입력은 변경하지 않음)
	clean := loan
	clean.RemainingTermMonths = &term
	clean.FicoBucket = &fico
	clean.VehicleType = vehicle
	s := string(parsed)
	clean.PaymentStatus = &s
	return clean, ""
}

func allowedStatuses() string {
	names := make([]string, len(abs.DelinquencyBuckets))
	for i, s := range abs.DelinquencyBuckets {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
