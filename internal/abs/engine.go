package abs

// =============================================================================
// Engine - ABS 분석 엔진 (순수 계산기)
// =============================================================================

// Engine ABS 분석 엔진
// ⭐ SSOT: 데이터셋 탐색/파일 출력은 상위 레이어(internal/report)에서 조립
// internal/abs는 순수 계산만 담당하며 내부 상태를 변경하지 않는다.
type Engine struct {
	assumptions Assumptions
	mode        ValidationMode
}

// Option configures an Engine.
type Option func(*Engine)

// WithAssumptions overrides the default model assumptions.
func WithAssumptions(a Assumptions) Option {
	return func(e *Engine) {
		e.assumptions = a
	}
}

// WithValidationMode selects lenient (report only) or strict (exclude) validation.
func WithValidationMode(mode ValidationMode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// NewEngine 새 ABS 엔진 생성
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		assumptions: DefaultAssumptions(),
		mode:        ValidationLenient,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assumptions returns the engine's effective model assumptions.
func (e *Engine) Assumptions() Assumptions {
	return e.assumptions
}

// Mode returns the engine's validation mode.
func (e *Engine) Mode() ValidationMode {
	return e.mode
}

// Analyze 전체 ABS 분석 수행
// 빈 풀 → nil. 각 단계는 독립적으로 계산되며, 한 단계가 nil이어도
// 나머지 단계는 중단되지 않는다 (부분 결과도 유효한 출력).
func (e *Engine) Analyze(loans []Loan) *AnalysisResult {
	if len(loans) == 0 {
		return nil
	}

	validation, accepted := e.ValidatePool(loans)

	summary := e.Aggregate(accepted)
	credit := e.CreditRisk(accepted)

	return &AnalysisResult{
		PoolSummary:                 summary,
		CreditRisk:                  credit,
		CashflowProjection:          e.ProjectCashflow(summary),
		RecommendedTrancheStructure: e.RecommendTranches(credit),
		Validation:                  validation,
	}
}
