package abs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidLoans(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name         string
		loan         Loan
		wantWarnings []string
	}{
		{"plain", newLoan("A", 10000, 5, 36, "current", 720), []string{}},
		{"zero principal", newLoan("B", 0, 5, 36, "current", 720), []string{}},
		{"one month term", newLoan("C", 100, 0, 1, "default", 500), []string{}},
		{"rate at threshold", newLoan("D", 100, 30, 12, "current", 700), []string{}},
		{"high rate warns only", newLoan("E", 100, 30.5, 12, "current", 700), []string{"High Interest Rate (>30%)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, issues := engine.Validate(tt.loan)
			assert.True(t, valid)
			assert.Equal(t, tt.wantWarnings, issues)
		})
	}
}

func TestValidate_MissingFieldShortCircuits(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		field string
		strip func(*Loan)
	}{
		{"principal_outstanding", func(l *Loan) { l.PrincipalOutstanding = nil }},
		{"interest_rate_annual", func(l *Loan) { l.InterestRateAnnual = nil }},
		{"remaining_term_months", func(l *Loan) { l.RemainingTermMonths = nil }},
		{"payment_status", func(l *Loan) { l.PaymentStatus = nil }},
		{"fico_bucket", func(l *Loan) { l.FicoBucket = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			// negative principal and zero term would also fail; only the missing field is reported
			loan := newLoan("X", -5, 45, 0, "current", 700)
			tt.strip(&loan)

			valid, issues := engine.Validate(loan)
			assert.False(t, valid)
			require.Len(t, issues, 1)
			assert.Equal(t, "Missing field: "+tt.field, issues[0])
		})
	}

	t.Run("first missing field wins", func(t *testing.T) {
		valid, issues := engine.Validate(Loan{})
		assert.False(t, valid)
		assert.Equal(t, []string{"Missing field: principal_outstanding"}, issues)
	})
}

func TestValidate_BusinessRuleOrder(t *testing.T) {
	engine := NewEngine()

	valid, issues := engine.Validate(newLoan("N", -1, 45, 0, "current", 700))
	assert.False(t, valid)
	assert.Equal(t, []string{"Negative Principal"}, issues)

	valid, issues = engine.Validate(newLoan("T", 1000, 45, 0, "current", 700))
	assert.False(t, valid)
	assert.Equal(t, []string{"Term <= 0"}, issues)

	valid, issues = engine.Validate(newLoan("R", 1000, 45, -3, "current", 700))
	assert.False(t, valid)
	assert.Equal(t, []string{"Term <= 0"}, issues)
}

func TestValidatePool_Modes(t *testing.T) {
	loans := []Loan{
		newLoan("ok", 10000, 5, 36, "current", 720),
		newLoan("neg", -100, 5, 36, "current", 720),
		newLoan("hot", 2000, 35, 24, "current", 650),
		{LoanID: "empty"},
	}

	t.Run("lenient keeps everything", func(t *testing.T) {
		report, accepted := NewEngine().ValidatePool(loans)
		assert.Len(t, accepted, 4)
		assert.Equal(t, ValidationLenient, report.Mode)
		assert.Equal(t, 4, report.LoansChecked)
		assert.Equal(t, 2, report.InvalidLoans)
		assert.Equal(t, 1, report.Warnings)
		require.Len(t, report.Findings, 3)
		assert.Equal(t, "neg", report.Findings[0].LoanID)
		assert.Equal(t, 1, report.Findings[0].Index)
		assert.True(t, report.Findings[1].Valid)
		assert.Equal(t, 3, report.Findings[2].Index)
	})

	t.Run("strict drops invalid", func(t *testing.T) {
		report, accepted := NewEngine(WithValidationMode(ValidationStrict)).ValidatePool(loans)
		require.Len(t, accepted, 2)
		assert.Equal(t, "ok", accepted[0].LoanID)
		assert.Equal(t, "hot", accepted[1].LoanID)
		assert.Equal(t, ValidationStrict, report.Mode)
		assert.Equal(t, 2, report.InvalidLoans)
	})
}

func TestParseValidationMode(t *testing.T) {
	mode, ok := ParseValidationMode("strict")
	assert.True(t, ok)
	assert.Equal(t, ValidationStrict, mode)

	mode, ok = ParseValidationMode("")
	assert.True(t, ok)
	assert.Equal(t, ValidationLenient, mode)

	_, ok = ParseValidationMode("paranoid")
	assert.False(t, ok)
}
