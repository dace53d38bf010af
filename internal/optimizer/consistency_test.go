package optimizer

import (
	"testing"

	"card-optimizer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(name, reward, fee string) *domain.RecommendationEntry {
	return &domain.RecommendationEntry{Name: name, RewardAmount: dec(reward), AnnualFee: dec(fee), Reasoning: "original"}
}

func TestReconcileSwapsWhenRunnerUpNetsMore(t *testing.T) {
	rec := domain.RankedRecommendation{
		BestOverall: entry("Fee Card", "2.25", "95"),
		RunnerUp:    entry("Free Card", "2.25", "0"),
	}

	swapped := Reconcile(&rec, OneOff)

	require.True(t, swapped)
	assert.Equal(t, "Free Card", rec.BestOverall.Name)
	assert.Equal(t, "Fee Card", rec.RunnerUp.Name)
	assert.Contains(t, rec.BestOverall.Reasoning, "Higher net value")
	assert.Contains(t, rec.RunnerUp.Reasoning, "Lower net value despite good rewards")
	assert.Equal(t, "2.25", rec.BestOverall.NetValue.String())
	assert.Equal(t, "1.99", rec.RunnerUp.NetValue.String())
}

func TestReconcileKeepsConsistentOrder(t *testing.T) {
	rec := domain.RankedRecommendation{
		BestOverall: entry("A", "4.50", "0"),
		RunnerUp:    entry("B", "3.00", "95"),
		Alternative: entry("C", "1.00", "0"),
	}

	assert.False(t, Reconcile(&rec, OneOff))
	assert.Equal(t, "A", rec.BestOverall.Name)
	assert.Equal(t, "original", rec.BestOverall.Reasoning)
	assert.Equal(t, "2.74", rec.RunnerUp.NetValue.String())
	assert.Equal(t, "1", rec.Alternative.NetValue.String())
}

func TestReconcileNeverPromotesZeroReward(t *testing.T) {
	rec := domain.RankedRecommendation{
		BestOverall: entry("A", "0.10", "95"),
		RunnerUp:    entry("B", "0", "0"),
	}

	assert.False(t, Reconcile(&rec, OneOff))
	assert.Equal(t, "A", rec.BestOverall.Name)
}

func TestReconcileUsesAnnualizedNetForRecurring(t *testing.T) {
	weekly := Frequency{52, "weekly"}
	rec := domain.RankedRecommendation{
		BestOverall: entry("Savor", "0.22", "95"),
		RunnerUp:    entry("Double Cash", "0.11", "0"),
	}

	require.True(t, Reconcile(&rec, weekly))
	assert.Equal(t, "Double Cash", rec.BestOverall.Name)
	assert.Equal(t, "5.72", rec.BestOverall.NetValue.String())
}

func TestReconcileMissingTiers(t *testing.T) {
	assert.False(t, Reconcile(nil, OneOff))

	rec := domain.RankedRecommendation{BestOverall: entry("A", "1", "0")}
	assert.False(t, Reconcile(&rec, OneOff))
	assert.Equal(t, "1", rec.BestOverall.NetValue.String())
}
