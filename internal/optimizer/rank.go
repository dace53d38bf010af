package optimizer

import (
	"fmt"
	"slices"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/format"

	"github.com/shopspring/decimal"
)

var daysPerYear = decimal.NewFromInt(365)

// Candidate is a card reduced to a comparable reward and fee.
type Candidate struct {
	CardID       string
	Name         string
	Issuer       string
	RewardAmount decimal.Decimal
	AnnualFee    decimal.Decimal
	RewardRate   string
	Trace        string
	Source       string
	SignupBonus  string
	FromCatalog  bool
}

type Scored struct {
	Candidate
	NetValue decimal.Decimal
}

// NetValue is the figure candidates are ranked by. A one-off purchase carries one day of the
// annual fee; a recurring purchase is annualized and carries the whole fee.
func NetValue(reward, annualFee decimal.Decimal, freq Frequency) decimal.Decimal {
	if !freq.Recurring() {
		return reward.Sub(annualFee.Div(daysPerYear))
	}
	return reward.Mul(decimal.NewFromInt(int64(freq.Multiplier))).Sub(annualFee)
}

// Rank orders candidates by net value, highest first. Equal net values keep their input order.
func Rank(candidates []Candidate, freq Frequency) []Scored {
	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = Scored{Candidate: c, NetValue: NetValue(c.RewardAmount, c.AnnualFee, freq)}
	}
	slices.SortStableFunc(scored, func(a, b Scored) int {
		return b.NetValue.Cmp(a.NetValue)
	})
	return scored
}

// Recommend maps the first three ranked candidates onto best overall, runner-up and alternative.
func Recommend(ranked []Scored, freq Frequency) domain.RankedRecommendation {
	var rec domain.RankedRecommendation
	tiers := []**domain.RecommendationEntry{&rec.BestOverall, &rec.RunnerUp, &rec.Alternative}
	for i := 0; i < len(ranked) && i < len(tiers); i++ {
		*tiers[i] = ranked[i].entry(rankReasoning(i, ranked, freq))
	}
	return rec
}

// HighestReward returns the catalog candidate with the largest raw reward, ignoring fees.
// The first card wins a tie; nil when no catalog card earns anything.
func HighestReward(candidates []Candidate) *Candidate {
	var best *Candidate
	for i := range candidates {
		c := &candidates[i]
		if !c.FromCatalog || !c.RewardAmount.IsPositive() {
			continue
		}
		if best == nil || c.RewardAmount.GreaterThan(best.RewardAmount) {
			best = c
		}
	}
	return best
}

func (s Scored) entry(reasoning string) *domain.RecommendationEntry {
	return &domain.RecommendationEntry{
		Name:             s.Name,
		Issuer:           s.Issuer,
		RewardAmount:     s.RewardAmount,
		RewardRate:       s.RewardRate,
		AnnualFee:        s.AnnualFee,
		NetValue:         s.NetValue.Round(2),
		SignupBonus:      s.SignupBonus,
		Reasoning:        reasoning,
		CalculationTrace: s.Trace,
		Source:           s.Source,
	}
}

func rankReasoning(i int, ranked []Scored, freq Frequency) string {
	basis := "after one day of annual fee"
	if freq.Recurring() {
		basis = fmt.Sprintf("per year over %d %s purchases after the annual fee", freq.Multiplier, freq.Label)
	}
	net := format.Currency(ranked[i].NetValue)
	switch i {
	case 0:
		if len(ranked) > 1 {
			return fmt.Sprintf("Highest net value: %s %s, ahead of %s at %s",
				net, basis, ranked[1].Name, format.Currency(ranked[1].NetValue))
		}
		return fmt.Sprintf("Only candidate: %s net %s", net, basis)
	case 1:
		return fmt.Sprintf("Second-highest net value: %s %s", net, basis)
	default:
		return fmt.Sprintf("Alternative option: %s net %s", net, basis)
	}
}
