package abs

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2_BinaryValue(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.015, 1.01},       // 1.01499999...
		{2.675, 2.67},       // 2.67499999...
		{1002.675, 1002.67}, // principal seen in a real tape
		{1234.565, 1234.57}, // 1234.56500000000005...
		{-2.675, -2.67},
		{0.125, 0.12}, // exact tie → even
		{0.375, 0.38}, // exact tie → even
		{123456789.125, 123456789.12},
		{15000, 15000},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, round2(tt.in), "round2(%v)", tt.in)
	}
}

func TestRound4(t *testing.T) {
	assert.Equal(t, 7.0833, round4(7.083333333))
	assert.Equal(t, 1.015, round4(1.015))
}

func TestRoundTo_NonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(round2(math.NaN())))
	assert.True(t, math.IsInf(round2(math.Inf(1)), 1))
}

func TestExactDecimal(t *testing.T) {
	assert.Equal(t, "0.125", exactDecimal(0.125).String())
	assert.Equal(t, "1048576", exactDecimal(1<<20).String())

	// 0.1 is not representable; the expansion carries the binary error
	d := exactDecimal(0.1)
	require.False(t, d.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, "0.1000000000000000055511151231257827", d.Truncate(34).String())
}
