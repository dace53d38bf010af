// Package catalog holds the embedded demo card catalog and the canned data
// used on fallback paths.
package catalog

import (
	_ "embed"
	"fmt"
	"maps"
	"strings"
	"sync"

	"card-optimizer/internal/domain"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"
)

//go:embed data/cards.yaml
var cardsYAML []byte

//go:embed data/fallback.yaml
var fallbackYAML []byte

const defaultKey = "default"

type cardFile struct {
	Cards     []cardDoc     `yaml:"cards"`
	Purchases []purchaseDoc `yaml:"purchases"`
}

type cardDoc struct {
	ID              string       `yaml:"id"`
	Name            string       `yaml:"name"`
	Issuer          string       `yaml:"issuer"`
	AnnualFee       float64      `yaml:"annual_fee"`
	RewardStructure structureDoc `yaml:"reward_structure"`
}

type structureDoc struct {
	DefaultRate float64            `yaml:"default_rate"`
	Categories  map[string]float64 `yaml:"categories"`
	RewardType  string             `yaml:"reward_type"`
	PointValue  float64            `yaml:"point_value"`
	AnnualCaps  map[string]float64 `yaml:"annual_caps"`
	SignupBonus string             `yaml:"signup_bonus"`
}

type purchaseDoc struct {
	Merchant          string  `yaml:"merchant"`
	Amount            float64 `yaml:"amount"`
	Category          string  `yaml:"category"`
	RecommendedCardID string  `yaml:"recommended_card_id"`
	RewardEarned      float64 `yaml:"reward_earned"`
}

type fallbackFile struct {
	DiscoveredCards map[string][]discoveredDoc       `yaml:"discovered_cards"`
	SearchResults   map[string][]domain.SearchResult `yaml:"search_results"`
	Scenarios       []scenarioDoc                    `yaml:"scenarios"`
}

type discoveredDoc struct {
	CardName          string  `yaml:"card_name"`
	Issuer            string  `yaml:"issuer"`
	CategoryRate      string  `yaml:"category_rate"`
	AnnualFee         float64 `yaml:"annual_fee"`
	SpendingCap       string  `yaml:"spending_cap"`
	PromotionalOffers string  `yaml:"promotional_offers"`
	SourceQuality     string  `yaml:"source_quality"`
}

type scenarioDoc struct {
	Category   string            `yaml:"category"`
	Keywords   []string          `yaml:"keywords"`
	Merchant   string            `yaml:"merchant"`
	Amount     float64           `yaml:"amount"`
	Confidence float64           `yaml:"confidence"`
	Cards      []ScenarioCardDoc `yaml:"cards"`
}

// ScenarioCardDoc is one canned recommendation tier.
type ScenarioCardDoc struct {
	Name        string  `yaml:"name"`
	RewardRate  string  `yaml:"reward_rate"`
	AnnualFee   float64 `yaml:"annual_fee"`
	SignupBonus string  `yaml:"signup_bonus"`
	Reasoning   string  `yaml:"reasoning"`
}

// Scenario is a canned recommendation for a broad kind of purchase.
type Scenario struct {
	Category   string
	Merchant   string
	Amount     decimal.Decimal
	Confidence float64
	Cards      []ScenarioCard
}

type ScenarioCard struct {
	Name        string
	RewardRate  string
	AnnualFee   decimal.Decimal
	SignupBonus string
	Reasoning   string
}

var (
	loadCards = sync.OnceValue(func() cardFile {
		var f cardFile
		mustUnmarshal("cards.yaml", cardsYAML, &f)
		return f
	})
	loadFallback = sync.OnceValue(func() fallbackFile {
		var f fallbackFile
		mustUnmarshal("fallback.yaml", fallbackYAML, &f)
		return f
	})
)

func mustUnmarshal(name string, data []byte, v any) {
	if err := yaml.Unmarshal(data, v); err != nil {
		panic(fmt.Sprintf("catalog: parse embedded %s: %v", name, err))
	}
}

// DemoCards returns a fresh copy of the six demo cards.
func DemoCards() []domain.Card {
	docs := loadCards().Cards
	cards := make([]domain.Card, 0, len(docs))
	for _, d := range docs {
		cards = append(cards, domain.Card{
			ID:        d.ID,
			Name:      d.Name,
			Issuer:    d.Issuer,
			AnnualFee: decimal.NewFromFloat(d.AnnualFee),
			RewardStructure: &domain.RewardStructure{
				DefaultRate: d.RewardStructure.DefaultRate,
				Categories:  cloneRates(d.RewardStructure.Categories),
				RewardType:  domain.RewardType(d.RewardStructure.RewardType),
				PointValue:  d.RewardStructure.PointValue,
				AnnualCaps:  cloneRates(d.RewardStructure.AnnualCaps),
				SignupBonus: d.RewardStructure.SignupBonus,
			},
			IsActive: true,
		})
	}
	return cards
}

// DemoPurchases returns the demo purchase history seeded next to the demo cards.
func DemoPurchases() []domain.PurchaseRecord {
	docs := loadCards().Purchases
	out := make([]domain.PurchaseRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.PurchaseRecord{
			Merchant:          d.Merchant,
			Amount:            decimal.NewFromFloat(d.Amount),
			Category:          d.Category,
			RecommendedCardID: d.RecommendedCardID,
			RewardEarned:      decimal.NewFromFloat(d.RewardEarned),
		})
	}
	return out
}

// FallbackCards returns canned discovered cards for category, or a generic flat-rate card.
func FallbackCards(category string) []domain.DiscoveredCard {
	all := loadFallback().DiscoveredCards
	docs, ok := all[strings.ToLower(category)]
	if !ok {
		docs = all[defaultKey]
	}
	out := make([]domain.DiscoveredCard, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.DiscoveredCard{
			CardName:          d.CardName,
			Issuer:            d.Issuer,
			CategoryRate:      d.CategoryRate,
			AnnualFee:         decimal.NewFromFloat(d.AnnualFee),
			SpendingCap:       d.SpendingCap,
			PromotionalOffers: d.PromotionalOffers,
			SourceQuality:     d.SourceQuality,
			Source:            "FALLBACK: Demo data (API unavailable)",
		})
	}
	return out
}

// FallbackSearchResults returns canned search hits for the first category named in query.
func FallbackSearchResults(query string) []domain.SearchResult {
	all := loadFallback().SearchResults
	q := strings.ToLower(query)
	for _, category := range domain.Categories() {
		if results, ok := all[category]; ok && strings.Contains(q, category) {
			return append([]domain.SearchResult(nil), results...)
		}
	}
	return append([]domain.SearchResult(nil), all[defaultKey]...)
}

// FallbackScenario picks the canned scenario whose keywords appear in query.
// The last scenario, which has no keywords, is the catch-all.
func FallbackScenario(query string) Scenario {
	scenarios := loadFallback().Scenarios
	q := strings.ToLower(query)
	pick := scenarios[len(scenarios)-1]
	for _, s := range scenarios {
		if matchesAny(q, s.Keywords) {
			pick = s
			break
		}
	}

	cards := make([]ScenarioCard, 0, len(pick.Cards))
	for _, c := range pick.Cards {
		cards = append(cards, ScenarioCard{
			Name:        c.Name,
			RewardRate:  c.RewardRate,
			AnnualFee:   decimal.NewFromFloat(c.AnnualFee),
			SignupBonus: c.SignupBonus,
			Reasoning:   c.Reasoning,
		})
	}
	return Scenario{
		Category:   pick.Category,
		Merchant:   pick.Merchant,
		Amount:     decimal.NewFromFloat(pick.Amount),
		Confidence: pick.Confidence,
		Cards:      cards,
	}
}

func matchesAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func cloneRates(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return maps.Clone(m)
}
