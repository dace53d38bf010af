package optimizer

import (
	"math"
	"testing"

	"card-optimizer/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func cashback(def float64, categories map[string]float64) *domain.RewardStructure {
	return &domain.RewardStructure{DefaultRate: def, Categories: categories, RewardType: domain.RewardCashback}
}

func purchase(amount float64, category string) domain.Transaction {
	return domain.NewTransaction("Test Merchant", decimal.NewFromFloat(amount), category, "")
}

func TestComputeReward(t *testing.T) {
	tests := []struct {
		name string
		rs   *domain.RewardStructure
		tx   domain.Transaction
		want string
		ok   bool
	}{
		{"category override", cashback(1, map[string]float64{"dining": 4}), purchase(5.50, "dining"), "0.22", true},
		{"default rate", cashback(1.5, map[string]float64{"dining": 3}), purchase(100, "gas"), "1.5", true},
		{"zero override wins", cashback(2, map[string]float64{"dining": 0}), purchase(100, "dining"), "0", true},
		{"rounds half up", cashback(1, nil), purchase(5.50, "dining"), "0.06", true},
		{
			"points use point value",
			&domain.RewardStructure{DefaultRate: 1, Categories: map[string]float64{"dining": 3}, RewardType: domain.RewardPoints, PointValue: 0.015},
			purchase(1000, "dining"), "0.45", true,
		},
		{
			"points default value",
			&domain.RewardStructure{DefaultRate: 2, RewardType: domain.RewardPoints},
			purchase(1000, "gas"), "0.2", true,
		},
		{"nil structure", nil, purchase(10, "dining"), "0", false},
		{"negative rate", cashback(-1, nil), purchase(10, "dining"), "0", false},
		{"nan rate", cashback(math.NaN(), nil), purchase(10, "dining"), "0", false},
		{"zero amount", cashback(4, nil), purchase(0, "dining"), "0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeReward(tt.rs, tt.tx)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestComputeRewardNeverNegative(t *testing.T) {
	rs := cashback(3, map[string]float64{"dining": 5})
	for _, amount := range []float64{0, 0.01, 1, 5.5, 1234.56} {
		got, ok := ComputeReward(rs, purchase(amount, "dining"))
		assert.True(t, ok)
		assert.False(t, got.IsNegative(), amount)
	}
}

func TestComputeRewardIsDeterministic(t *testing.T) {
	rs := cashback(1, map[string]float64{"grocery": 6})
	tx := purchase(120, "grocery")
	first, _ := ComputeReward(rs, tx)
	for range 5 {
		again, _ := ComputeReward(rs, tx)
		assert.True(t, first.Equal(again))
	}
	assert.Equal(t, "7.2", first.String())
}

func TestDescribeStructure(t *testing.T) {
	assert.Equal(t, "4% cash back on dining", describeStructure(cashback(1, map[string]float64{"dining": 4}), "dining"))
	assert.Equal(t, "1% cash back on everything else", describeStructure(cashback(1, nil), "gas"))

	points := &domain.RewardStructure{DefaultRate: 1, Categories: map[string]float64{"dining": 3}, RewardType: domain.RewardPoints, PointValue: 0.015}
	assert.Equal(t, "3x points on dining (1.5¢/point)", describeStructure(points, "dining"))
}

func TestTraceStructureNotesCap(t *testing.T) {
	rs := cashback(1, map[string]float64{"grocery": 6})
	rs.AnnualCaps = map[string]float64{"grocery": 6000}
	tx := purchase(120, "grocery")
	reward, _ := ComputeReward(rs, tx)

	assert.Equal(t, "$120.00 × 6% = $7.20 (annual cap $6,000 not applied)", traceStructure(rs, tx, reward))
}
