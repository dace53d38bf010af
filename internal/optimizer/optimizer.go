// Package optimizer turns a transaction and a set of candidate cards into a ranked,
// explained recommendation. Everything here is synchronous and free of I/O.
package optimizer

import (
	"fmt"
	"log/slog"
	"strings"

	"card-optimizer/internal/domain"
)

// Result is the outcome of one optimization.
type Result struct {
	Transaction    domain.Transaction          `json:"transaction"`
	Frequency      Frequency                   `json:"frequency"`
	Ranked         []Scored                    `json:"-"`
	Recommendation domain.RankedRecommendation `json:"recommendation"`
	Impact         domain.FinancialImpact      `json:"financial_impact"`
	// HighestReward is the catalog card earning the most on this purchase before fees.
	HighestReward *Candidate     `json:"-"`
	Outcome       domain.Outcome `json:"outcome"`
}

// Optimize ranks catalog cards and discovered cards for tx. cards is a read-only snapshot of the
// catalog; discovered cards carry free-text rates. Catalog cards come first, and a discovered card
// whose name matches an earlier candidate is skipped.
func Optimize(tx domain.Transaction, cards []domain.Card, discovered []domain.DiscoveredCard) Result {
	freq := InferFrequency(tx.OriginalQuery)
	candidates := Candidates(tx, cards, discovered)

	result := Result{
		Transaction: tx,
		Frequency:   freq,
		Outcome:     domain.Computed(),
	}
	if len(candidates) == 0 {
		result.Impact = Summarize(tx, nil, freq)
		result.Outcome = domain.Fallback("no candidate cards")
		return result
	}

	result.Ranked = Rank(candidates, freq)
	result.Recommendation = Recommend(result.Ranked, freq)
	Reconcile(&result.Recommendation, freq)
	result.Impact = Summarize(tx, &result.Recommendation, freq)
	result.HighestReward = HighestReward(candidates)
	return result
}

// Candidates reconciles catalog and discovered cards into one comparable list.
func Candidates(tx domain.Transaction, cards []domain.Card, discovered []domain.DiscoveredCard) []Candidate {
	seen := make(map[string]struct{}, len(cards)+len(discovered))
	out := make([]Candidate, 0, len(cards)+len(discovered))

	add := func(c Candidate) {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	for _, card := range cards {
		add(FromCard(card, tx))
	}
	for _, d := range discovered {
		add(FromDiscovered(d, tx))
	}
	return out
}

// FromCard scores a catalog card through its reward structure.
func FromCard(card domain.Card, tx domain.Transaction) Candidate {
	reward, ok := ComputeReward(card.RewardStructure, tx)
	if !ok {
		slog.Warn("Malformed reward structure, counting reward as zero", "card_id", card.ID, "card", card.Name)
	}
	c := Candidate{
		CardID:       card.ID,
		Name:         card.Name,
		Issuer:       card.Issuer,
		RewardAmount: reward,
		AnnualFee:    card.AnnualFee,
		RewardRate:   describeStructure(card.RewardStructure, tx.Category),
		Trace:        traceStructure(card.RewardStructure, tx, reward),
		Source:       "Card catalog",
		FromCatalog:  true,
	}
	if card.RewardStructure != nil {
		c.SignupBonus = card.RewardStructure.SignupBonus
	}
	return c
}

// FromDiscovered scores a discovered card through its free-text rate.
func FromDiscovered(d domain.DiscoveredCard, tx domain.Transaction) Candidate {
	rate := ParseRate(d.CategoryRate)
	source := d.Source
	if source == "" {
		source = "Market discovery"
		if d.SourceQuality != "" {
			source = fmt.Sprintf("Market discovery (%s credibility)", d.SourceQuality)
		}
	}
	rateText := strings.TrimSpace(d.CategoryRate)
	if rateText == "" {
		rateText = rate.String()
	}
	return Candidate{
		Name:         d.CardName,
		Issuer:       d.Issuer,
		RewardAmount: rate.Reward(tx.Amount),
		AnnualFee:    d.AnnualFee,
		RewardRate:   rateText,
		Trace:        rate.Trace(tx.Amount),
		Source:       source,
		SignupBonus:  d.PromotionalOffers,
	}
}
