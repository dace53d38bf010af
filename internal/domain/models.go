// internal/domain/models.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// reward amounts and fees go out as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Known purchase categories. Anything else collapses to CategoryOther.
const (
	CategoryDining        = "dining"
	CategoryGrocery       = "grocery"
	CategoryGas           = "gas"
	CategoryTravel        = "travel"
	CategoryEntertainment = "entertainment"
	CategoryShopping      = "shopping"
	CategoryUtilities     = "utilities"
	CategoryHealthcare    = "healthcare"
	CategoryOther         = "other"
)

var knownCategories = map[string]struct{}{
	CategoryDining:        {},
	CategoryGrocery:       {},
	CategoryGas:           {},
	CategoryTravel:        {},
	CategoryEntertainment: {},
	CategoryShopping:      {},
	CategoryUtilities:     {},
	CategoryHealthcare:    {},
	CategoryOther:         {},
}

// Categories returns the known purchase categories in display order.
func Categories() []string {
	return []string{
		CategoryDining, CategoryGrocery, CategoryGas, CategoryTravel, CategoryEntertainment,
		CategoryShopping, CategoryUtilities, CategoryHealthcare, CategoryOther,
	}
}

// NormalizeCategory matches s case-insensitively against the known set.
func NormalizeCategory(s string) string {
	c := strings.ToLower(strings.TrimSpace(s))
	if _, ok := knownCategories[c]; ok {
		return c
	}
	return CategoryOther
}

// IsKnownCategory reports whether s names one of the known categories.
func IsKnownCategory(s string) bool {
	_, ok := knownCategories[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Transaction is a parsed purchase description.
type Transaction struct {
	Merchant         string          `json:"merchant"`
	Amount           decimal.Decimal `json:"amount"`
	Category         string          `json:"category"`
	OriginalQuery    string          `json:"original_query"`
	Confidence       float64         `json:"confidence,omitempty"`
	ExtractedContext []string        `json:"extracted_context,omitempty"`
	Reasoning        string          `json:"reasoning,omitempty"`
}

// NewTransaction builds a Transaction with a normalized category and a non-negative amount.
func NewTransaction(merchant string, amount decimal.Decimal, category, query string) Transaction {
	merchant = strings.TrimSpace(merchant)
	if merchant == "" {
		merchant = "Unknown"
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return Transaction{
		Merchant:      merchant,
		Amount:        amount,
		Category:      NormalizeCategory(category),
		OriginalQuery: query,
	}
}

type RewardType string

const (
	RewardCashback RewardType = "cashback"
	RewardPoints   RewardType = "points"
)

// RewardStructure rates are percent per dollar spent (4.0 means 4%).
type RewardStructure struct {
	DefaultRate float64            `json:"default_rate"`
	Categories  map[string]float64 `json:"categories"`
	RewardType  RewardType         `json:"reward_type"`
	PointValue  float64            `json:"point_value,omitempty"`
	AnnualCaps  map[string]float64 `json:"annual_caps,omitempty"`
	SignupBonus string             `json:"signup_bonus,omitempty"`
}

// Card is a catalog card.
type Card struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Issuer          string           `json:"issuer"`
	AnnualFee       decimal.Decimal  `json:"annual_fee"`
	RewardStructure *RewardStructure `json:"reward_structure"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
}

// DiscoveredCard is a candidate found through market discovery. Its rate is free text.
type DiscoveredCard struct {
	CardName          string          `json:"card_name"`
	Issuer            string          `json:"issuer"`
	CategoryRate      string          `json:"category_rate"`
	AnnualFee         decimal.Decimal `json:"annual_fee"`
	SpendingCap       string          `json:"spending_cap,omitempty"`
	PromotionalOffers string          `json:"promotional_offers,omitempty"`
	SourceQuality     string          `json:"source_quality,omitempty"`
	Source            string          `json:"source,omitempty"`
}

// RecommendationEntry is one tier of a RankedRecommendation.
type RecommendationEntry struct {
	Name             string          `json:"name"`
	Issuer           string          `json:"issuer,omitempty"`
	RewardAmount     decimal.Decimal `json:"reward_amount"`
	RewardRate       string          `json:"reward_rate"`
	AnnualFee        decimal.Decimal `json:"annual_fee"`
	NetValue         decimal.Decimal `json:"net_value"`
	SignupBonus      string          `json:"signup_bonus,omitempty"`
	Reasoning        string          `json:"reasoning"`
	CalculationTrace string          `json:"calculation_trace"`
	Source           string          `json:"source"`
}

type RankedRecommendation struct {
	BestOverall *RecommendationEntry `json:"best_overall,omitempty"`
	RunnerUp    *RecommendationEntry `json:"runner_up,omitempty"`
	Alternative *RecommendationEntry `json:"alternative,omitempty"`
}

// Entries returns the non-nil tiers in rank order.
func (r RankedRecommendation) Entries() []*RecommendationEntry {
	var out []*RecommendationEntry
	for _, e := range []*RecommendationEntry{r.BestOverall, r.RunnerUp, r.Alternative} {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

type FinancialImpact struct {
	OpportunityCost  string `json:"opportunity_cost"`
	AnnualProjection string `json:"annual_projection"`
}

// SearchResult is one credible market-discovery hit.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Credibility string `json:"credibility,omitempty"`
}

type MarketAnalysis struct {
	Results      []SearchResult `json:"results"`
	QueriesUsed  []string       `json:"queries_used"`
	TotalSources int            `json:"total_sources"`
}

// ResearchSummary is handed to the recommendation generator alongside discovered cards.
type ResearchSummary struct {
	Results         []SearchResult `json:"results,omitempty"`
	TotalSources    int            `json:"total_sources"`
	QueriesUsed     []string       `json:"queries_used"`
	CredibleSources int            `json:"credible_sources"`
	CardsResearched int            `json:"cards_researched"`
}

type OutcomeStatus string

const (
	OutcomeComputed OutcomeStatus = "computed"
	OutcomeFallback OutcomeStatus = "fallback"
)

// Outcome tells callers whether a response was computed or degraded to fallback data.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

func Computed() Outcome { return Outcome{Status: OutcomeComputed} }

func Fallback(reason string) Outcome { return Outcome{Status: OutcomeFallback, Reason: reason} }

func (o Outcome) IsFallback() bool { return o.Status == OutcomeFallback }

// PurchaseRecord is a logged purchase together with the card we recommended for it.
type PurchaseRecord struct {
	ID                  string          `json:"id"`
	Merchant            string          `json:"merchant"`
	Amount              decimal.Decimal `json:"amount"`
	Category            string          `json:"category"`
	RecommendedCardID   string          `json:"recommended_card_id,omitempty"`
	RecommendedCardName string          `json:"recommended_card_name,omitempty"`
	ActualCardID        string          `json:"actual_card_id,omitempty"`
	RewardEarned        decimal.Decimal `json:"reward_earned"`
	Date                time.Time       `json:"date"`
}
