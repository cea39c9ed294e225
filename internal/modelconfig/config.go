package modelconfig

import (
	"time"

	"github.com/wonny/autovault/internal/abs"
)

// File는 모델 가정 YAML 파일의 전체 구조
// 생략된 항목은 abs.DefaultAssumptions() 값 유지
type File struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Validation Validation `yaml:"validation" json:"validation"`
	Credit     Credit     `yaml:"credit" json:"credit"`
	Cashflow   Cashflow   `yaml:"cashflow" json:"cashflow"`
	Tranche    Tranche    `yaml:"tranche" json:"tranche"`
}

// Meta 메타 정보
type Meta struct {
	ModelID string `yaml:"model_id" json:"model_id"`
	Version string `yaml:"version" json:"version"`
}

// Validation 대출 검증 임계값
type Validation struct {
	HighRatePct float64 `yaml:"high_rate_pct" json:"high_rate_pct"`
}

// Credit 신용 리스크
type Credit struct {
	LGD                 float64 `yaml:"lgd" json:"lgd"`
	StressFactor        float64 `yaml:"stress_factor" json:"stress_factor"`
	StressLGDMultiplier float64 `yaml:"stress_lgd_multiplier" json:"stress_lgd_multiplier"`
}

// Cashflow 현금흐름 / 풀 요약
type Cashflow struct {
	CostOfFunds      float64 `yaml:"cost_of_funds" json:"cost_of_funds"`
	ServicingFee     float64 `yaml:"servicing_fee" json:"servicing_fee"`
	WALFactor        float64 `yaml:"wal_factor" json:"wal_factor"`
	ProjectionMonths int     `yaml:"projection_months" json:"projection_months"`
}

// Tranche 트랜치 사이징
type Tranche struct {
	EquityBufferPct   float64 `yaml:"equity_buffer_pct" json:"equity_buffer_pct"`
	MezzanineMultiple float64 `yaml:"mezzanine_multiple" json:"mezzanine_multiple"`
	SeniorFloorPct    int     `yaml:"senior_floor_pct" json:"senior_floor_pct"`
	FloorMezzaninePct int     `yaml:"floor_mezzanine_pct" json:"floor_mezzanine_pct"`
	FloorEquityPct    int     `yaml:"floor_equity_pct" json:"floor_equity_pct"`
	AAAStressLimitPct float64 `yaml:"aaa_stress_limit_pct" json:"aaa_stress_limit_pct"`
}

// FromAssumptions builds a File mirroring a.
func FromAssumptions(a abs.Assumptions) File {
	return File{
		Validation: Validation{HighRatePct: a.HighRatePct},
		Credit: Credit{
			LGD:                 a.LGD,
			StressFactor:        a.StressFactor,
			StressLGDMultiplier: a.StressLGDMultiplier,
		},
		Cashflow: Cashflow{
			CostOfFunds:      a.CostOfFunds,
			ServicingFee:     a.ServicingFee,
			WALFactor:        a.WALFactor,
			ProjectionMonths: a.ProjectionMonths,
		},
		Tranche: Tranche{
			EquityBufferPct:   a.EquityBufferPct,
			MezzanineMultiple: a.MezzanineMultiple,
			SeniorFloorPct:    a.SeniorFloorPct,
			FloorMezzaninePct: a.FloorMezzaninePct,
			FloorEquityPct:    a.FloorEquityPct,
			AAAStressLimitPct: a.AAAStressLimitPct,
		},
	}
}

// Assumptions flattens the file into the engine's scalar set
func (f File) Assumptions() abs.Assumptions {
	return abs.Assumptions{
		LGD:                 f.Credit.LGD,
		StressFactor:        f.Credit.StressFactor,
		StressLGDMultiplier: f.Credit.StressLGDMultiplier,
		CostOfFunds:         f.Cashflow.CostOfFunds,
		ServicingFee:        f.Cashflow.ServicingFee,
		WALFactor:           f.Cashflow.WALFactor,
		HighRatePct:         f.Validation.HighRatePct,
		ProjectionMonths:    f.Cashflow.ProjectionMonths,
		EquityBufferPct:     f.Tranche.EquityBufferPct,
		MezzanineMultiple:   f.Tranche.MezzanineMultiple,
		SeniorFloorPct:      f.Tranche.SeniorFloorPct,
		FloorMezzaninePct:   f.Tranche.FloorMezzaninePct,
		FloorEquityPct:      f.Tranche.FloorEquityPct,
		AAAStressLimitPct:   f.Tranche.AAAStressLimitPct,
	}
}

// Snapshot 가정 스냅샷 (재현성용, 리포트 아카이브에 함께 저장 가능)
type Snapshot struct {
	AssumptionsHash string          `json:"assumptions_hash"`
	AssumptionsYAML string          `json:"assumptions_yaml,omitempty"`
	ModelID         string          `json:"model_id"`
	Assumptions     abs.Assumptions `json:"assumptions"`
	CreatedAt       time.Time       `json:"created_at"`
}
