package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoCards(t *testing.T) {
	cards := DemoCards()
	require.Len(t, cards, 6)

	byID := map[string]int{}
	for i, c := range cards {
		byID[c.ID] = i
		assert.True(t, c.IsActive, c.ID)
		require.NotNil(t, c.RewardStructure, c.ID)
	}

	savor := cards[byID["capital-one-savor"]]
	assert.Equal(t, "Capital One Savor", savor.Name)
	assert.True(t, decimal.NewFromInt(95).Equal(savor.AnnualFee))
	assert.Equal(t, 4.0, savor.RewardStructure.Categories["dining"])

	csp := cards[byID["chase-sapphire-preferred"]]
	assert.Equal(t, 0.015, csp.RewardStructure.PointValue)
}

func TestDemoCardsReturnsCopies(t *testing.T) {
	first := DemoCards()
	first[0].RewardStructure.Categories["dining"] = 99
	first[0].Name = "changed"

	second := DemoCards()
	assert.NotEqual(t, "changed", second[0].Name)
	assert.NotEqual(t, 99.0, second[0].RewardStructure.Categories["dining"])
}

func TestDemoPurchases(t *testing.T) {
	purchases := DemoPurchases()
	require.Len(t, purchases, 3)
	assert.Equal(t, "Starbucks", purchases[0].Merchant)
	assert.Equal(t, "5.5", purchases[0].Amount.String())
	assert.Equal(t, "0.22", purchases[0].RewardEarned.String())
}

func TestFallbackCards(t *testing.T) {
	dining := FallbackCards("Dining")
	require.NotEmpty(t, dining)
	assert.Equal(t, "Capital One Savor", dining[0].CardName)
	assert.Equal(t, "4% cash back", dining[0].CategoryRate)

	other := FallbackCards("pets")
	require.NotEmpty(t, other)
	assert.Equal(t, "Citi Double Cash", other[0].CardName)
}

func TestFallbackSearchResults(t *testing.T) {
	grocery := FallbackSearchResults("best grocery credit card 2025")
	require.NotEmpty(t, grocery)
	assert.NotEmpty(t, grocery[0].URL)

	generic := FallbackSearchResults("something unrelated")
	assert.NotEmpty(t, generic)
}

func TestFallbackScenario(t *testing.T) {
	tests := []struct {
		query    string
		category string
		first    string
	}{
		{"buying coffee at Starbucks", "dining", "Capital One Savor"},
		{"weekly trip to Whole Foods", "grocery", "Amex Blue Cash Preferred"},
		{"booking a flight to Denver", "travel", "Capital One Venture X"},
		{"new headphones", "shopping", "Citi Double Cash"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			s := FallbackScenario(tt.query)
			assert.Equal(t, tt.category, s.Category)
			require.Len(t, s.Cards, 3)
			assert.Equal(t, tt.first, s.Cards[0].Name)
		})
	}
}
