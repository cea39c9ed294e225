package abs

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// roundTo 고정 소수점 반올림 (half-even)
// float의 정확한 이진 값을 기준으로 반올림한다: 1.015는 실제로 1.01499...이므로 1.01
func roundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return exactDecimal(v).RoundBank(places).InexactFloat64()
}

// exactDecimal expands v = mant·2^exp without loss.
// decimal.NewFromFloat would start from the shortest repr ("1.015") instead.
func exactDecimal(v float64) decimal.Decimal {
	frac, exp := math.Frexp(v)
	mant := decimal.NewFromInt(int64(frac * (1 << 53)))
	exp -= 53

	if exp >= 0 {
		pow := new(big.Int).Lsh(big.NewInt(1), uint(exp))
		return mant.Mul(decimal.NewFromBigInt(pow, 0))
	}
	// 2^-k = 5^k · 10^-k
	k := int64(-exp)
	pow := new(big.Int).Exp(big.NewInt(5), big.NewInt(k), nil)
	return mant.Mul(decimal.NewFromBigInt(pow, int32(-k)))
}

func round2(v float64) float64 { return roundTo(v, 2) }

func round4(v float64) float64 { return roundTo(v, 4) }
