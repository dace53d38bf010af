package optimizer

import (
	"fmt"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/format"

	"github.com/shopspring/decimal"
)

// ProjectedPurchasesPerYear stands in for the spending pattern of a one-off purchase:
// four similar purchases a month.
const ProjectedPurchasesPerYear = 48

// baselineRate is the flat, fee-free 2% card every recommendation is measured against.
var baselineRate = decimal.NewFromFloat(0.02)

const (
	unavailableOpportunity = "Unable to calculate without recommendation"
	unavailableProjection  = "Analysis unavailable"
)

// Summarize describes what the best recommendation is worth against a flat 2% card,
// and what it would net over a year.
func Summarize(tx domain.Transaction, rec *domain.RankedRecommendation, freq Frequency) domain.FinancialImpact {
	if rec == nil || rec.BestOverall == nil || rec.BestOverall.Name == "" {
		return domain.FinancialImpact{
			OpportunityCost:  unavailableOpportunity,
			AnnualProjection: unavailableProjection,
		}
	}
	best := rec.BestOverall

	opportunity := decimal.Max(decimal.Zero, best.RewardAmount.Sub(tx.Amount.Mul(baselineRate)))

	purchases := int64(ProjectedPurchasesPerYear)
	suffix := ""
	if freq.Recurring() {
		purchases = int64(freq.Multiplier)
		suffix = fmt.Sprintf(" (%s purchases)", freq.Label)
	}
	net := best.RewardAmount.Mul(decimal.NewFromInt(purchases)).Sub(best.AnnualFee)

	projection := fmt.Sprintf("Could earn %s/year in %s category%s", format.WholeCurrency(net), tx.Category, suffix)
	if net.IsNegative() {
		projection = fmt.Sprintf("Annual fee outweighs rewards: %s/year in %s category%s",
			format.WholeCurrency(net), tx.Category, suffix)
	}

	return domain.FinancialImpact{
		OpportunityCost:  format.Currency(opportunity) + " more than basic 2% card",
		AnnualProjection: projection,
	}
}
