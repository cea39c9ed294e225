package abs

// Aggregate 풀 구성 집계 (원금 가중 평균)
// 빈 입력 → nil, 원금 합계 0 → ZeroPrincipalPool sentinel (0으로 나누기 방지)
func (e *Engine) Aggregate(loans []Loan) *PoolSummary {
	if len(loans) == 0 {
		return nil
	}

	count := len(loans)
	total := totalPrincipal(loans)
	if total == 0 {
		return &PoolSummary{LoanCount: count, Error: ZeroPrincipalPool}
	}

	var wair, wam float64
	for _, l := range loans {
		weight := l.Principal() / total
		wair += l.RatePct() * weight
		wam += l.TermMonths() * weight
	}

	return &PoolSummary{
		LoanCount:                      count,
		TotalPrincipalUSD:              round2(total),
		WeightedAvgInterestRate:        round4(wair),
		WeightedAvgRemainingTermMonths: round2(wam),
		// 상각 자산의 WAL은 WAM의 약 60%로 추정
		WeightedAvgLifeYears: round2(wam / 12.0 * e.assumptions.WALFactor),
	}
}

func totalPrincipal(loans []Loan) float64 {
	var total float64
	for _, l := range loans {
		total += l.Principal()
	}
	return total
}
