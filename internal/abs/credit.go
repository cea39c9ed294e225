package abs

import "math"

const (
	// defaultPDFICO PD 조회 시 FICO 누락 대출의 가정값
	defaultPDFICO = 600
	// defaultDistributionFICO 분포/가중평균 계산 시 FICO 누락 대출의 가정값
	defaultDistributionFICO = 0
)

// CreditRisk 신용 리스크 지표 (PD × LGD 모델)
// 원금 합계 0 → nil
// 스트레스 시나리오는 결정적 승수 적용 (통계 시뮬레이션 아님)
func (e *Engine) CreditRisk(loans []Loan) *CreditRiskResult {
	total := totalPrincipal(loans)
	if total == 0 {
		return nil
	}

	a := e.assumptions
	delinquency := make(DelinquencyBreakdown, len(DelinquencyBuckets))
	for _, b := range DelinquencyBuckets {
		delinquency[b] = 0
	}
	distribution := make(FICODistribution, len(FICOBands))
	for _, b := range FICOBands {
		distribution[b.Label] = 0
	}

	stressLGD := math.Min(a.LGD*a.StressLGDMultiplier, 1.0)

	var expectedLoss, stressLoss, ficoWeighted float64
	for _, l := range loans {
		bal := l.Principal()
		status := l.Status()

		// 1. 연체 구간 (알 수 없는 상태는 default로 분류)
		bucket, _ := ParseStatus(string(status))
		delinquency[bucket] += bal

		// 2. PD 조회 + 상태 조정
		pd := AdjustPD(BasePD(l.FICOOr(defaultPDFICO)), status)

		expectedLoss += bal * pd * a.LGD
		stressLoss += bal * math.Min(pd*a.StressFactor, 1.0) * stressLGD

		// 3. FICO 분포
		fico := l.FICOOr(defaultDistributionFICO)
		distribution[FICOBandLabel(fico)]++
		ficoWeighted += fico * bal
	}

	return &CreditRiskResult{
		BaseExpectedLossPct:     round2(expectedLoss / total * 100),
		StressExpectedLossPct:   round2(stressLoss / total * 100),
		DelinquencyBreakdownUSD: delinquency,
		FICODistributionCount:   distribution,
		WeightedAvgFICO:         int(math.Floor(ficoWeighted / math.Max(total, 1))),
	}
}
