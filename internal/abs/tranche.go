package abs

import "math"

const (
	RatingAAA = "AAA (Senior)"
	RatingAA  = "AA (Senior)"
)

// RecommendTranches 스트레스 손실 기반 트랜치 구조 권장
// Equity = ceil(stress + 1), Mezz = ceil(stress × 2), Senior = 나머지
func (e *Engine) RecommendTranches(credit *CreditRiskResult) *TrancheStructure {
	if credit == nil {
		return nil
	}

	a := e.assumptions
	stress := credit.StressExpectedLossPct

	equity := int(math.Ceil(stress + a.EquityBufferPct))
	mezz := int(math.Ceil(stress * a.MezzanineMultiple))

	structure := TrancheStructure{
		SeniorClassAPct:    100 - equity - mezz,
		MezzanineClassBPct: mezz,
		EquityClassCPct:    equity,
		RatingImplied:      e.impliedRating(stress),
	}

	return e.applySeniorFloor(structure)
}

// applySeniorFloor 정책 규칙: Senior가 하한 미만이면 고정 구조로 대체
// 극단적 스트레스에서의 비정상 구조를 막는 하드 오버라이드 (산식의 일부가 아님)
func (e *Engine) applySeniorFloor(t TrancheStructure) *TrancheStructure {
	a := e.assumptions
	if t.SeniorClassAPct < a.SeniorFloorPct {
		t.SeniorClassAPct = a.SeniorFloorPct
		t.MezzanineClassBPct = a.FloorMezzaninePct
		t.EquityClassCPct = a.FloorEquityPct
	}
	return &t
}

func (e *Engine) impliedRating(stressLossPct float64) string {
	if stressLossPct < e.assumptions.AAAStressLimitPct {
		return RatingAAA
	}
	return RatingAA
}
