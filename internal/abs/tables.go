package abs

import (
	"math"
	"strings"
)

// =============================================================================
// Fixed Lookup Tables
// ⭐ SSOT: 구간 경계는 여기서만 정의 (조건문 체인 금지)
// =============================================================================

// PaymentStatus 납입 상태 (연체 구간)
type PaymentStatus string

const (
	StatusCurrent   PaymentStatus = "current"
	Status30DPD     PaymentStatus = "30dpd"
	Status60DPD     PaymentStatus = "60dpd"
	Status90PlusDPD PaymentStatus = "90+dpd"
	StatusDefault   PaymentStatus = "default"
)

// DelinquencyBuckets 연체 구간 (고정 순서)
var DelinquencyBuckets = []PaymentStatus{
	StatusCurrent,
	Status30DPD,
	Status60DPD,
	Status90PlusDPD,
	StatusDefault,
}

func normalizeStatus(s string) PaymentStatus {
	return PaymentStatus(strings.ToLower(s))
}

// ParseStatus reports whether s belongs to the fixed vocabulary.
// Unrecognized values map to StatusDefault.
func ParseStatus(s string) (PaymentStatus, bool) {
	status := normalizeStatus(s)
	for _, b := range DelinquencyBuckets {
		if b == status {
			return status, true
		}
	}
	return StatusDefault, false
}

// pdBand FICO 하한 이상이면 해당 PD 적용 (내림차순 탐색)
type pdBand struct {
	MinFICO float64
	PD      float64
}

// PDCurve FICO 구간별 기본 부도율 (단순화된 업계 커브)
var PDCurve = []pdBand{
	{MinFICO: 750, PD: 0.005},
	{MinFICO: 700, PD: 0.015},
	{MinFICO: 600, PD: 0.04},
	{MinFICO: math.Inf(-1), PD: 0.08},
}

// BasePD returns the table PD for a credit score.
func BasePD(fico float64) float64 {
	for _, band := range PDCurve {
		if fico >= band.MinFICO {
			return band.PD
		}
	}
	// NaN falls through every comparison
	return PDCurve[len(PDCurve)-1].PD
}

// statusAdjustment 납입 상태별 PD 조정
// Certain=true이면 PD=100% (확정 부도)
type statusAdjustment struct {
	Status     PaymentStatus
	Multiplier float64
	Certain    bool
}

// StatusAdjustments 연체 상태 PD 승수
var StatusAdjustments = []statusAdjustment{
	{Status: Status30DPD, Multiplier: 2.5},
	{Status: Status60DPD, Multiplier: 5.0},
	{Status: Status90PlusDPD, Certain: true},
	{Status: StatusDefault, Certain: true},
}

// AdjustPD applies the status multiplier to a base PD.
// Statuses outside the table (current, unrecognized) keep the base PD.
func AdjustPD(basePD float64, status PaymentStatus) float64 {
	for _, adj := range StatusAdjustments {
		if adj.Status != status {
			continue
		}
		if adj.Certain {
			return 1.0
		}
		return basePD * adj.Multiplier
	}
	return basePD
}

// ficoBand 분포용 FICO 밴드
type ficoBand struct {
	Label   string
	MinFICO float64
}

// FICOBands 분포 집계용 밴드 (내림차순 탐색)
var FICOBands = []ficoBand{
	{Label: "800+", MinFICO: 800},
	{Label: "700-799", MinFICO: 700},
	{Label: "600-699", MinFICO: 600},
	{Label: "<600", MinFICO: math.Inf(-1)},
}

// FICOBandLabel returns the distribution band for a credit score.
func FICOBandLabel(fico float64) string {
	for _, band := range FICOBands {
		if fico >= band.MinFICO {
			return band.Label
		}
	}
	return FICOBands[len(FICOBands)-1].Label
}
