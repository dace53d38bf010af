// Package advisor asks the language model to read market research and to draft a
// recommendation. Every number it drafts is recomputed by the optimizer.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"card-optimizer/internal/catalog"
	"card-optimizer/internal/domain"
	"card-optimizer/internal/llm"
	"card-optimizer/internal/optimizer"
)

const (
	DefaultTimeout = 12 * time.Second

	maxTokens      = 1000
	maxPromptHits  = 10
	maxPromptCards = 5
)

type Advisor struct {
	client  llm.Client
	timeout time.Duration
}

// New returns an advisor. With a nil client ExtractCards serves canned cards and Recommend fails.
func New(client llm.Client, timeout time.Duration) *Advisor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Advisor{client: client, timeout: timeout}
}

type extractedCard struct {
	CardName          string      `json:"card_name"`
	Issuer            string      `json:"issuer"`
	CategoryRate      string      `json:"category_rate"`
	AnnualFee         looseAmount `json:"annual_fee"`
	SpendingCap       *string     `json:"spending_cap"`
	PromotionalOffers string      `json:"promotional_offers"`
	SourceQuality     string      `json:"source_quality"`
}

// ExtractCards pulls concrete card offers out of search results. When the model is
// unavailable or its answer is unusable, the canned cards for category are returned.
func (a *Advisor) ExtractCards(ctx context.Context, results []domain.SearchResult, category string) []domain.DiscoveredCard {
	if a.client == nil {
		return catalog.FallbackCards(category)
	}

	cards, err := a.extractCards(ctx, results, category)
	if err != nil {
		slog.Warn("Card extraction failed, using fallback cards", "category", category, "error", err)
		return catalog.FallbackCards(category)
	}
	slog.Info("Extracted cards from discovery", "category", category, "count", len(cards))
	return cards
}

func (a *Advisor) extractCards(ctx context.Context, results []domain.SearchResult, category string) ([]domain.DiscoveredCard, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	reply, err := a.client.Complete(ctx, extractPrompt(results, category), maxTokens)
	if err != nil {
		return nil, err
	}

	var parsed []extractedCard
	if err := llm.DecodeJSON(reply, &parsed); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}

	cards := make([]domain.DiscoveredCard, 0, len(parsed))
	for _, c := range parsed {
		if strings.TrimSpace(c.CardName) == "" {
			continue
		}
		card := domain.DiscoveredCard{
			CardName:          strings.TrimSpace(c.CardName),
			Issuer:            c.Issuer,
			CategoryRate:      c.CategoryRate,
			AnnualFee:         c.AnnualFee.Decimal(),
			PromotionalOffers: c.PromotionalOffers,
			SourceQuality:     strings.ToLower(c.SourceQuality),
		}
		if c.SpendingCap != nil {
			card.SpendingCap = *c.SpendingCap
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, domain.ErrEmptyResponse
	}
	return cards, nil
}

type draftEntry struct {
	Name        string      `json:"name"`
	RewardRate  string      `json:"reward_rate"`
	AnnualFee   looseAmount `json:"annual_fee"`
	SignupBonus string      `json:"signup_bonus"`
	Reasoning   string      `json:"ai_reasoning"`
	DataSource  string      `json:"data_source"`
}

type draftRecommendation struct {
	BestOverall *draftEntry `json:"best_overall"`
	RunnerUp    *draftEntry `json:"runner_up"`
	Alternative *draftEntry `json:"alternative"`
}

// Recommend asks the model for three ranked cards. Reward amounts and traces are rebuilt from
// each card's stated rate and the tiers are reconciled by net value. Errors are returned
// so the caller can fall back.
func (a *Advisor) Recommend(
	ctx context.Context,
	tx domain.Transaction,
	discovered []domain.DiscoveredCard,
	research domain.ResearchSummary,
	freq optimizer.Frequency,
) (domain.RankedRecommendation, error) {
	if a.client == nil {
		return domain.RankedRecommendation{}, domain.ErrNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt, err := recommendPrompt(tx, discovered, research, freq)
	if err != nil {
		return domain.RankedRecommendation{}, err
	}
	reply, err := a.client.Complete(ctx, prompt, maxTokens)
	if err != nil {
		return domain.RankedRecommendation{}, err
	}

	var draft draftRecommendation
	if err := llm.DecodeJSON(reply, &draft); err != nil {
		return domain.RankedRecommendation{}, fmt.Errorf("decode recommendation: %w", err)
	}
	if draft.BestOverall == nil || strings.TrimSpace(draft.BestOverall.Name) == "" {
		return domain.RankedRecommendation{}, fmt.Errorf("recommendation has no best_overall: %w", domain.ErrEmptyResponse)
	}

	source := fmt.Sprintf("Live market data from %d sources", len(discovered))
	rec := domain.RankedRecommendation{
		BestOverall: finalize(draft.BestOverall, tx, source),
		RunnerUp:    finalize(draft.RunnerUp, tx, source),
		Alternative: finalize(draft.Alternative, tx, source),
	}
	if optimizer.Reconcile(&rec, freq) {
		slog.Info("Reordered model recommendation by net value", "best_overall", rec.BestOverall.Name)
	}
	return rec, nil
}

// finalize rebuilds a drafted tier from its stated rate.
func finalize(d *draftEntry, tx domain.Transaction, defaultSource string) *domain.RecommendationEntry {
	if d == nil || strings.TrimSpace(d.Name) == "" {
		return nil
	}
	rate := optimizer.ParseRate(d.RewardRate)
	source := strings.TrimSpace(d.DataSource)
	if source == "" {
		source = defaultSource
	}
	return &domain.RecommendationEntry{
		Name:             strings.TrimSpace(d.Name),
		RewardAmount:     rate.Reward(tx.Amount),
		RewardRate:       d.RewardRate,
		AnnualFee:        d.AnnualFee.Decimal(),
		SignupBonus:      d.SignupBonus,
		Reasoning:        d.Reasoning,
		CalculationTrace: rate.Trace(tx.Amount),
		Source:           source,
	}
}

func extractPrompt(results []domain.SearchResult, category string) string {
	var b strings.Builder
	for _, r := range results[:min(len(results), maxPromptHits)] {
		fmt.Fprintf(&b, "Source: %s\n%s\n", r.Title, r.Description)
	}

	return fmt.Sprintf(`Analyze these market research results about %[1]s credit cards and extract specific card options:

Search Results:
%[2]s
Extract all credit cards mentioned with their reward structures. Return JSON array:
[
    {
        "card_name": "full official name",
        "issuer": "bank name",
        "category_rate": "specific %[1]s reward rate",
        "annual_fee": "fee amount or 0",
        "spending_cap": "any annual/monthly limits or null",
        "promotional_offers": "current signup bonuses or limited-time rates",
        "source_quality": "high/medium/low based on source credibility"
    }
]

Only include cards with specific %[1]s rewards. Focus on major issuers (Chase, Amex, Citi, Capital One, etc.).
Be precise about rates - distinguish between temporary promotional rates and standard rates.`, category, b.String())
}

func recommendPrompt(tx domain.Transaction, discovered []domain.DiscoveredCard, research domain.ResearchSummary, freq optimizer.Frequency) (string, error) {
	txJSON, err := json.Marshal(tx)
	if err != nil {
		return "", fmt.Errorf("marshal transaction: %w", err)
	}
	cardsJSON, err := json.Marshal(discovered[:min(len(discovered), maxPromptCards)])
	if err != nil {
		return "", fmt.Errorf("marshal cards: %w", err)
	}
	researchJSON, err := json.Marshal(research)
	if err != nil {
		return "", fmt.Errorf("marshal research: %w", err)
	}

	netRule := "This is a single purchase: net value = reward_amount - annual_fee / 365."
	if freq.Recurring() {
		netRule = fmt.Sprintf("Recurring purchase, about %d times per year: net value = reward_amount * %d - annual_fee.",
			freq.Multiplier, freq.Multiplier)
	}

	return fmt.Sprintf(`You are an expert financial advisor. Based on the transaction details and market research data, analyze and recommend the best credit cards.

Transaction: %s
Discovered Cards: %s
Research Summary: %s

Rank cards by net value. %s
"best_overall" MUST have the highest net value, "runner_up" the second highest.
Do not recommend high annual fee cards as best unless the rewards clearly exceed the fee.

Return ONLY valid JSON, no other text, in this exact format:
{
    "best_overall": {
        "name": "card name",
        "reward_rate": "rate description, e.g. 4%% cash back or 3x points",
        "annual_fee": fee_amount,
        "signup_bonus": "bonus description if available",
        "ai_reasoning": "why this is best for this purchase",
        "data_source": "specific URL or source where this info was found"
    },
    "runner_up": { same fields },
    "alternative": { same fields }
}

Always state reward_rate as a percentage for cash back or as "Nx points"/"Nx miles" for points cards.`,
		txJSON, cardsJSON, researchJSON, netRule), nil
}
