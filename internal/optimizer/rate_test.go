package optimizer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want Rate
	}{
		{"4% cash back", Percentage(4)},
		{"Earn 1.5% on everything", Percentage(1.5)},
		{"3x points on dining", PointsMultiplier(3, PointConversion)},
		{"2X Miles", PointsMultiplier(2, PointConversion)},
		{"5% back, 3x points", Percentage(5)},
		{"3x on dining", Baseline()},
		{"great rewards", Baseline()},
		{"", Baseline()},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRate(tt.in))
		})
	}
}

func TestRateReward(t *testing.T) {
	amount := decimal.NewFromInt(100)

	assert.Equal(t, "4", ParseRate("4% cash back").Reward(amount).String())
	assert.Equal(t, "4.5", ParseRate("3x points").Reward(amount).String())
	assert.Equal(t, "2", ParseRate("unknown").Reward(amount).String())
	assert.True(t, ParseRate("0% intro APR").Reward(amount).IsZero())
}

func TestRateTrace(t *testing.T) {
	amount := decimal.NewFromInt(100)

	assert.Equal(t, "$100.00 × 4% = $4.00 cash back", Percentage(4).Trace(amount))
	assert.Equal(t, "$100.00 × 3 points × $0.015/point = $4.50", PointsMultiplier(3, 0.015).Trace(amount))
	assert.Contains(t, Baseline().Trace(amount), "baseline")
}
