package abs

// Assumptions 모델 스칼라 가정
// ⭐ SSOT: 재현성을 위해 리포트에 해시로 기록됨 (internal/modelconfig)
type Assumptions struct {
	LGD                 float64 `json:"lgd"`                   // Loss Given Default (회수율 40%)
	StressFactor        float64 `json:"stress_factor"`         // 스트레스 PD 승수
	StressLGDMultiplier float64 `json:"stress_lgd_multiplier"` // 스트레스 LGD 승수
	CostOfFunds         float64 `json:"cost_of_funds"`         // 조달 비용 (연율)
	ServicingFee        float64 `json:"servicing_fee"`         // 서비싱 수수료 (연율)
	WALFactor           float64 `json:"wal_factor"`            // WAL ≈ WAM × factor
	HighRatePct         float64 `json:"high_rate_pct"`         // 고금리 경고 기준 (%)
	ProjectionMonths    int     `json:"projection_months"`     // 현금흐름 시뮬레이션 기간
	EquityBufferPct     float64 `json:"equity_buffer_pct"`     // Equity = stress + buffer
	MezzanineMultiple   float64 `json:"mezzanine_multiple"`    // Mezz = stress × multiple
	SeniorFloorPct      int     `json:"senior_floor_pct"`      // Senior 하한
	FloorMezzaninePct   int     `json:"floor_mezzanine_pct"`   // 하한 위반 시 Mezz
	FloorEquityPct      int     `json:"floor_equity_pct"`      // 하한 위반 시 Equity
	AAAStressLimitPct   float64 `json:"aaa_stress_limit_pct"`  // stress < limit → AAA
}

// DefaultAssumptions 기본 가정
func DefaultAssumptions() Assumptions {
	return Assumptions{
		LGD:                 0.60,
		StressFactor:        2.0,
		StressLGDMultiplier: 1.2,
		CostOfFunds:         0.05,
		ServicingFee:        0.01,
		WALFactor:           0.6,
		HighRatePct:         30.0,
		ProjectionMonths:    12,
		EquityBufferPct:     1.0,
		MezzanineMultiple:   2.0,
		SeniorFloorPct:      50,
		FloorMezzaninePct:   30,
		FloorEquityPct:      20,
		AAAStressLimitPct:   5.0,
	}
}
