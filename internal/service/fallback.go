package service

import (
	"card-optimizer/internal/catalog"
	"card-optimizer/internal/domain"
	"card-optimizer/internal/optimizer"
	"card-optimizer/internal/parser"

	"github.com/google/uuid"
)

const fallbackSource = "FALLBACK: Demo data (API unavailable)"

// Fallback answers query from canned per-category recommendations. Rewards are still
// computed from each card's rate and ranked by the optimizer, so best_overall never nets
// less than runner_up. tx may be nil when no parse is available.
func Fallback(query string, tx *domain.Transaction, reason string) Response {
	scenario := catalog.FallbackScenario(query)

	var t domain.Transaction
	parsedBy := parser.SourceKeywords
	if tx != nil {
		t = *tx
	} else {
		t = parser.Fallback(query)
		if t.Category == domain.CategoryOther {
			t.Category = domain.NormalizeCategory(scenario.Category)
		}
		if t.Merchant == "Unknown" {
			t.Merchant = scenario.Merchant
		}
	}
	if t.Amount.IsZero() {
		t.Amount = scenario.Amount
	}

	candidates := make([]optimizer.Candidate, 0, len(scenario.Cards))
	reasons := make(map[string]string, len(scenario.Cards))
	for _, c := range scenario.Cards {
		reasons[c.Name] = c.Reasoning
		rate := optimizer.ParseRate(c.RewardRate)
		candidates = append(candidates, optimizer.Candidate{
			Name:         c.Name,
			RewardAmount: rate.Reward(t.Amount),
			AnnualFee:    c.AnnualFee,
			RewardRate:   c.RewardRate,
			Trace:        rate.Trace(t.Amount),
			Source:       fallbackSource,
			SignupBonus:  c.SignupBonus,
		})
	}

	freq := optimizer.InferFrequency(query)
	rec := optimizer.Recommend(optimizer.Rank(candidates, freq), freq)
	for _, e := range rec.Entries() {
		if r := reasons[e.Name]; r != "" {
			e.Reasoning = r
		}
	}
	optimizer.Reconcile(&rec, freq)

	results := catalog.FallbackSearchResults(t.Category)
	return Response{
		RequestID:   uuid.NewString(),
		Transaction: t,
		ParsedBy:    parsedBy,
		Frequency:   freq,
		MarketAnalysis: domain.MarketAnalysis{
			Results:      results,
			QueriesUsed:  []string{},
			TotalSources: len(results),
		},
		Recommendation:  rec,
		FinancialImpact: optimizer.Summarize(t, &rec, freq),
		Outcome:         domain.Fallback(reason),
	}
}
