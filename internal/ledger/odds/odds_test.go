package odds

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american float64
		want     float64
	}{
		{"positive", 150, 2.5},
		{"negative", -200, 1.5},
		{"even money plus", 100, 2.0},
		{"even money minus", -100, 2.0},
		{"invalid between", 50, 1.0},
		{"invalid zero", 0, 1.0},
		{"invalid negative between", -99, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AmericanToDecimal(tt.american), 1e-9)
		})
	}
}

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		name string
		dec  float64
		want int
	}{
		{"underdog", 2.5, 150},
		{"favourite", 1.5, -200},
		{"even", 2.0, 100},
		{"degenerate", 1.0, AmericanFloor},
		{"just below floor", 1.009, AmericanFloor},
		{"min accepted", 1.01, -10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecimalToAmerican(tt.dec))
		})
	}
}

func TestRoundTripIsApproximate(t *testing.T) {
	for _, american := range []float64{110, 150, 250, -110, -150, -300} {
		got := DecimalToAmerican(AmericanToDecimal(american))
		assert.InDelta(t, american, float64(got), 1, "american %v", american)
	}
}

func TestPotentialProfit(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	assert.True(t, PotentialProfit(hundred, 2.0, decimal.Zero).Equal(decimal.NewFromInt(100)))
	assert.True(t, PotentialProfit(hundred, 1.85, decimal.Zero).Equal(decimal.NewFromInt(85)))
	assert.True(t, PotentialProfit(hundred, 2.0, decimal.NewFromInt(10)).Equal(decimal.NewFromInt(110)))
	assert.True(t, PotentialProfit(decimal.NewFromFloat(12.5), 3.0, decimal.Zero).Equal(decimal.NewFromInt(25)))
}

func TestPayout(t *testing.T) {
	got := Payout(decimal.NewFromInt(100), 2.5, decimal.NewFromInt(5))
	assert.True(t, got.Equal(decimal.NewFromInt(255)), "got %s", got)
}
