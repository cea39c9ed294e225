package abs

import "math"

// ProjectCashflow 단일 노트 근사 월별 상각 (1년치)
// 풀 가중평균 잔액/금리/만기를 갖는 가상의 노트 하나를 상각한다.
// nil 또는 에러 summary → nil, 만기 0개월 → {"error": "Term is zero"}
func (e *Engine) ProjectCashflow(summary *PoolSummary) *CashflowProjection {
	if !summary.Valid() {
		return nil
	}

	a := e.assumptions
	bal := summary.TotalPrincipalUSD
	rate := summary.WeightedAvgInterestRate / 100.0
	term := int(summary.WeightedAvgRemainingTermMonths)

	if term == 0 {
		return &CashflowProjection{Error: TermIsZero}
	}

	monthlyRate := rate / 12.0
	pmt := LevelPayment(bal, monthlyRate, term)

	var totalInterest, totalPrincipal float64
	for month := 0; month < a.ProjectionMonths; month++ {
		if bal <= 0 {
			break
		}
		interest := bal * monthlyRate
		principal := math.Min(pmt-interest, bal)

		totalInterest += interest
		totalPrincipal += principal
		bal -= principal
	}

	netSpread := math.Max(0, rate-a.CostOfFunds-a.ServicingFee)

	return &CashflowProjection{
		ProjectedAnnualPrincipal: round2(totalPrincipal),
		ProjectedAnnualInterest:  round2(totalInterest),
		GrossYieldPct:            round2(rate * 100),
		NetExcessSpreadPct:       round2(netSpread * 100),
	}
}

// LevelPayment 원리금 균등 상환액 (annuity)
// 월 금리 0 이하 → 원금 균등 (거듭제곱 형태의 0 나누기 회피)
func LevelPayment(balance, monthlyRate float64, termMonths int) float64 {
	if monthlyRate > 0 {
		return balance * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(termMonths)))
	}
	return balance / float64(termMonths)
}
