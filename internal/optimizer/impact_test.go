package optimizer

import (
	"testing"

	"card-optimizer/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tx := purchase(5.50, "dining")

	tests := []struct {
		name        string
		best        *domain.RecommendationEntry
		freq        Frequency
		opportunity string
		projection  string
	}{
		{
			name:        "one-off",
			best:        entry("Capital One Savor", "0.22", "0"),
			freq:        OneOff,
			opportunity: "$0.11 more than basic 2% card",
			projection:  "Could earn $11/year in dining category",
		},
		{
			name:        "fee outweighs rewards",
			best:        entry("Capital One Savor", "0.22", "95"),
			freq:        Frequency{52, "weekly"},
			opportunity: "$0.11 more than basic 2% card",
			projection:  "Annual fee outweighs rewards: -$84/year in dining category (weekly purchases)",
		},
		{
			name:        "below baseline is floored",
			best:        entry("Weak Card", "0.05", "0"),
			freq:        OneOff,
			opportunity: "$0.00 more than basic 2% card",
			projection:  "Could earn $2/year in dining category",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impact := Summarize(tx, &domain.RankedRecommendation{BestOverall: tt.best}, tt.freq)
			assert.Equal(t, tt.opportunity, impact.OpportunityCost)
			assert.Equal(t, tt.projection, impact.AnnualProjection)
		})
	}
}

func TestSummarizeWithoutRecommendation(t *testing.T) {
	tx := purchase(5.50, "dining")

	for _, rec := range []*domain.RankedRecommendation{nil, {}, {BestOverall: &domain.RecommendationEntry{}}} {
		impact := Summarize(tx, rec, OneOff)
		assert.Equal(t, "Unable to calculate without recommendation", impact.OpportunityCost)
		assert.Equal(t, "Analysis unavailable", impact.AnnualProjection)
	}
}
