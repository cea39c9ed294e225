package abs

import "encoding/json"

// =============================================================================
// Loan Record
// =============================================================================

// Loan 단일 오토론 레코드 (입력 전용, 어떤 단계에서도 변경하지 않음)
// 필수 필드는 포인터로 두어 "없음"과 "0"을 구분한다.
type Loan struct {
	LoanID               string   `json:"loan_id,omitempty"`
	OriginationDate      string   `json:"origination_date,omitempty"`
	PrincipalOutstanding *float64 `json:"principal_outstanding,omitempty"`
	InterestRateAnnual   *float64 `json:"interest_rate_annual,omitempty"` // percent, 5.25 = 5.25%
	RemainingTermMonths  *float64 `json:"remaining_term_months,omitempty"`
	PaymentStatus        *string  `json:"payment_status,omitempty"`
	FicoBucket           *float64 `json:"fico_bucket,omitempty"`
	LTV                  *float64 `json:"ltv,omitempty"`
	DTI                  *float64 `json:"dti,omitempty"`
	VehicleType          string   `json:"vehicle_type,omitempty"`
	VehicleAgeYears      *float64 `json:"vehicle_age_years,omitempty"`
}

// Principal returns the outstanding balance, 0 when absent.
func (l Loan) Principal() float64 {
	if l.PrincipalOutstanding == nil {
		return 0
	}
	return *l.PrincipalOutstanding
}

// RatePct returns the annual rate in percent, 0 when absent.
func (l Loan) RatePct() float64 {
	if l.InterestRateAnnual == nil {
		return 0
	}
	return *l.InterestRateAnnual
}

// TermMonths returns the remaining term, 0 when absent.
func (l Loan) TermMonths() float64 {
	if l.RemainingTermMonths == nil {
		return 0
	}
	return *l.RemainingTermMonths
}

// Status returns the lower-cased payment status, "current" when absent.
// The value is not checked against the vocabulary; see ParseStatus.
func (l Loan) Status() PaymentStatus {
	if l.PaymentStatus == nil {
		return StatusCurrent
	}
	return normalizeStatus(*l.PaymentStatus)
}

// FICOOr returns the credit score or def when absent.
func (l Loan) FICOOr(def float64) float64 {
	if l.FicoBucket == nil {
		return def
	}
	return *l.FicoBucket
}

// =============================================================================
// Derived Aggregates
// =============================================================================

// ZeroPrincipalPool 원금 합계가 0인 풀의 sentinel 에러 메시지
const ZeroPrincipalPool = "Zero Principal Pool"

// TermIsZero 가중 평균 만기가 0개월로 잘리는 경우의 에러 메시지
const TermIsZero = "Term is zero"

// PoolSummary 풀 구성 집계
// Error가 설정되면 {loan_count, error} 형태로만 직렬화된다.
type PoolSummary struct {
	Error                          string  `json:"error,omitempty"`
	LoanCount                      int     `json:"loan_count"`
	TotalPrincipalUSD              float64 `json:"total_principal_usd"`
	WeightedAvgInterestRate        float64 `json:"weighted_avg_interest_rate"`
	WeightedAvgLifeYears           float64 `json:"weighted_avg_life_years"`
	WeightedAvgRemainingTermMonths float64 `json:"weighted_avg_remaining_term_months"`
}

// Valid reports whether the summary carries usable aggregates.
func (s *PoolSummary) Valid() bool {
	return s != nil && s.Error == ""
}

// MarshalJSON emits the sentinel shape for error summaries.
func (s PoolSummary) MarshalJSON() ([]byte, error) {
	if s.Error != "" {
		return json.Marshal(struct {
			Error     string `json:"error"`
			LoanCount int    `json:"loan_count"`
		}{s.Error, s.LoanCount})
	}
	type plain PoolSummary
	return json.Marshal(plain(s))
}

// DelinquencyBreakdown 연체 구간별 잔액 (USD)
// map 직렬화는 키 정렬이 보장되므로 출력 순서가 결정적이다.
type DelinquencyBreakdown map[PaymentStatus]float64

// Total returns the sum of all bucket balances in bucket order.
func (d DelinquencyBreakdown) Total() float64 {
	var sum float64
	for _, s := range DelinquencyBuckets {
		sum += d[s]
	}
	return sum
}

// FICODistribution FICO 밴드별 대출 건수
type FICODistribution map[string]int

// CreditRiskResult 신용 리스크 결과
type CreditRiskResult struct {
	BaseExpectedLossPct     float64              `json:"base_expected_loss_pct"`
	DelinquencyBreakdownUSD DelinquencyBreakdown `json:"delinquency_breakdown_usd"`
	FICODistributionCount   FICODistribution     `json:"fico_distribution_count"`
	StressExpectedLossPct   float64              `json:"stress_expected_loss_pct"`
	WeightedAvgFICO         int                  `json:"weighted_avg_fico"`
}

// CashflowProjection 단일 노트 근사 연간 현금흐름
type CashflowProjection struct {
	Error                    string  `json:"error,omitempty"`
	GrossYieldPct            float64 `json:"gross_yield_pct"`
	NetExcessSpreadPct       float64 `json:"net_excess_spread_pct"`
	ProjectedAnnualInterest  float64 `json:"projected_annual_interest"`
	ProjectedAnnualPrincipal float64 `json:"projected_annual_principal"`
}

// MarshalJSON emits {"error": ...} alone for error projections.
func (c CashflowProjection) MarshalJSON() ([]byte, error) {
	if c.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{c.Error})
	}
	type plain CashflowProjection
	return json.Marshal(plain(c))
}

// TrancheStructure 권장 트랜치 구조 (퍼센트 정수)
type TrancheStructure struct {
	EquityClassCPct    int    `json:"equity_class_c_pct"`
	MezzanineClassBPct int    `json:"mezzanine_class_b_pct"`
	RatingImplied      string `json:"rating_implied"`
	SeniorClassAPct    int    `json:"senior_class_a_pct"`
}

// Total returns senior + mezzanine + equity.
func (t TrancheStructure) Total() int {
	return t.SeniorClassAPct + t.MezzanineClassBPct + t.EquityClassCPct
}

// =============================================================================
// Validation Types
// =============================================================================

// ValidationMode 검증 정책
type ValidationMode string

const (
	// ValidationLenient 검증 결과는 보고만 하고 모든 대출을 집계 (기본값)
	ValidationLenient ValidationMode = "lenient"
	// ValidationStrict 유효하지 않은 대출은 집계 전에 제외
	ValidationStrict ValidationMode = "strict"
)

// ParseValidationMode maps a config string to a mode, defaulting to lenient.
func ParseValidationMode(s string) (ValidationMode, bool) {
	switch ValidationMode(s) {
	case ValidationLenient, "":
		return ValidationLenient, true
	case ValidationStrict:
		return ValidationStrict, true
	default:
		return ValidationLenient, false
	}
}

// LoanFinding 대출 1건의 검증 결과 (이슈가 있는 경우만 기록)
type LoanFinding struct {
	Index  int      `json:"index"`
	Issues []string `json:"issues"`
	LoanID string   `json:"loan_id,omitempty"`
	Valid  bool     `json:"valid"`
}

// ValidationReport 풀 단위 검증 요약
type ValidationReport struct {
	Findings     []LoanFinding  `json:"findings"`
	InvalidLoans int            `json:"invalid_loans"`
	LoansChecked int            `json:"loans_checked"`
	Mode         ValidationMode `json:"mode"`
	Warnings     int            `json:"warnings"`
}

// =============================================================================
// Analysis Result
// =============================================================================

// AnalysisResult 풀 하나에 대한 전체 분석 결과
// ⭐ 생성 후 변경 금지: 직렬화 후 폐기
// 필드 순서 = JSON 키 알파벳 순서 (바이트 단위 재현성)
type AnalysisResult struct {
	CashflowProjection          *CashflowProjection `json:"cashflow_projection"`
	CreditRisk                  *CreditRiskResult   `json:"credit_risk"`
	DatasetIndex                *int                `json:"dataset_index,omitempty"`
	DatasetName                 string              `json:"dataset_name,omitempty"`
	InternalPoolIndex           *int                `json:"internal_pool_index,omitempty"`
	PoolSummary                 *PoolSummary        `json:"pool_summary"`
	RecommendedTrancheStructure *TrancheStructure   `json:"recommended_tranche_structure"`
	Validation                  *ValidationReport   `json:"validation,omitempty"`
}

// WithSource returns a copy annotated with dataset metadata.
func (r AnalysisResult) WithSource(datasetName string, datasetIndex, poolIndex int) *AnalysisResult {
	r.DatasetName = datasetName
	r.DatasetIndex = &datasetIndex
	r.InternalPoolIndex = &poolIndex
	return &r
}
