package modelconfig

import (
	"fmt"

	"github.com/wonny/autovault/internal/abs"
)

// ValidationError 검증 실패 (로드 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
func Validate(a abs.Assumptions) error {
	// === Validation ===
	if a.HighRatePct <= 0 {
		return ValidationError{"validation.high_rate_pct", "must be > 0"}
	}

	// === Credit ===
	if a.LGD <= 0 || a.LGD > 1 {
		return ValidationError{"credit.lgd", "must be in (0, 1]"}
	}
	if a.StressFactor < 1 {
		return ValidationError{"credit.stress_factor", "must be >= 1"}
	}
	if a.StressLGDMultiplier < 1 {
		return ValidationError{"credit.stress_lgd_multiplier", "must be >= 1"}
	}

	// === Cashflow ===
	if a.CostOfFunds < 0 {
		return ValidationError{"cashflow.cost_of_funds", "must be >= 0"}
	}
	if a.ServicingFee < 0 {
		return ValidationError{"cashflow.servicing_fee", "must be >= 0"}
	}
	if a.WALFactor <= 0 || a.WALFactor > 1 {
		return ValidationError{"cashflow.wal_factor", "must be in (0, 1]"}
	}
	if a.ProjectionMonths < 1 || a.ProjectionMonths > 360 {
		return ValidationError{"cashflow.projection_months", "must be in [1, 360]"}
	}

	// === Tranche ===
	if a.EquityBufferPct < 0 {
		return ValidationError{"tranche.equity_buffer_pct", "must be >= 0"}
	}
	if a.MezzanineMultiple < 0 {
		return ValidationError{"tranche.mezzanine_multiple", "must be >= 0"}
	}
	if a.SeniorFloorPct < 0 || a.SeniorFloorPct > 100 {
		return ValidationError{"tranche.senior_floor_pct", "must be in [0, 100]"}
	}
	if a.FloorMezzaninePct < 0 || a.FloorEquityPct < 0 {
		return ValidationError{"tranche", "floor_mezzanine_pct and floor_equity_pct must be >= 0"}
	}
	// 하한 적용 시 구조 합계 = 100
	if a.SeniorFloorPct+a.FloorMezzaninePct+a.FloorEquityPct != 100 {
		return ValidationError{"tranche", "senior_floor_pct + floor_mezzanine_pct + floor_equity_pct must equal 100"}
	}
	if a.AAAStressLimitPct <= 0 {
		return ValidationError{"tranche.aaa_stress_limit_pct", "must be > 0"}
	}

	return nil
}

// Warn checks recommended (non-fatal) constraints
func Warn(a abs.Assumptions) []Warning {
	var warnings []Warning

	// 스프레드가 음수가 되는 비용 구조
	if a.CostOfFunds+a.ServicingFee >= 0.10 {
		warnings = append(warnings, Warning{
			Code:    "HIGH_FUNDING_COST",
			Message: "cost_of_funds + servicing_fee >= 10%: 대부분의 풀에서 net excess spread = 0",
		})
	}

	// LGD가 낮으면 스트레스 손실 과소평가
	if a.LGD < 0.4 {
		warnings = append(warnings, Warning{
			Code:    "OPTIMISTIC_LGD",
			Message: "LGD < 40%: 자동차 담보 회수율 가정이 낙관적일 수 있음",
		})
	}

	if a.ProjectionMonths > 12 {
		warnings = append(warnings, Warning{
			Code:    "LONG_PROJECTION",
			Message: "projection_months > 12: projected_annual_* 필드가 1년 초과 금액을 담음",
		})
	}

	return warnings
}
