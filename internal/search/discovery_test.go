package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/search/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func fixYear(t *testing.T) {
	t.Helper()
	orig := currentYear
	currentYear = func() int { return 2025 }
	t.Cleanup(func() { currentYear = orig })
}

func TestDiscoveryQueries(t *testing.T) {
	fixYear(t)

	assert.Equal(t, []string{
		"best dining credit cards 2025 cash back rewards comparison",
		"highest dining credit card rates 2025",
		"dining credit cards 6% 5% 4% rewards current offers",
	}, DiscoveryQueries("dining"))
}

func TestDiscoverWithoutSearcher(t *testing.T) {
	analysis := New(nil, time.Second).Discover(context.Background(), "dining")

	assert.Len(t, analysis.QueriesUsed, 3)
	assert.Equal(t, 6, analysis.TotalSources)
	assert.Len(t, analysis.Results, analysis.TotalSources)
	for _, r := range analysis.Results {
		assert.Equal(t, CredibilityHigh, r.Credibility)
	}
}

func TestDiscoverMergesPartialFailure(t *testing.T) {
	fixYear(t)
	queries := DiscoveryQueries("dining")

	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().Search(gomock.Any(), queries[0], discoveryCount).Return([]domain.SearchResult{
		{Title: "NerdWallet", URL: "https://www.nerdwallet.com/dining"},
		{Title: "Blog", URL: "https://example.com/dining"},
	}, nil)
	searcher.EXPECT().Search(gomock.Any(), queries[1], discoveryCount).Return(nil, errors.New("status 500"))
	searcher.EXPECT().Search(gomock.Any(), queries[2], discoveryCount).Return([]domain.SearchResult{
		{Title: "Local Bank", URL: "https://localbank.example/cards"},
	}, nil)

	analysis := New(searcher, time.Second).Discover(context.Background(), "dining")

	require.Equal(t, 4, analysis.TotalSources)
	assert.Equal(t, "NerdWallet", analysis.Results[0].Title)
	assert.Equal(t, "Best Dining Credit Cards 2024 - NerdWallet", analysis.Results[1].Title)
	assert.Equal(t, "Local Bank", analysis.Results[3].Title)
	assert.Equal(t, CredibilityMedium, analysis.Results[3].Credibility)
	assert.Equal(t, queries, analysis.QueriesUsed)
}

func TestDiscoverTimeoutFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Times(3).
		DoAndReturn(func(ctx context.Context, _ string, _ int) ([]domain.SearchResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	start := time.Now()
	analysis := New(searcher, 30*time.Millisecond).Discover(context.Background(), "grocery")

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 6, analysis.TotalSources)
}

func TestResearchQueries(t *testing.T) {
	fixYear(t)
	tx := domain.Transaction{Merchant: "Starbucks", Category: "dining"}
	cards := []domain.DiscoveredCard{{CardName: "A"}, {CardName: ""}, {CardName: "C"}, {CardName: "D"}}

	queries, researched := ResearchQueries(cards, tx)

	assert.Equal(t, 2, researched)
	assert.Equal(t, []string{
		"A dining rewards rate annual fee 2025",
		"A signup bonus current 2025",
		"C dining rewards rate annual fee 2025",
		"C signup bonus current 2025",
		"Starbucks merchant category code MCC dining",
	}, queries)

	queries, researched = ResearchQueries(nil, domain.Transaction{Merchant: "Unknown", Category: "gas"})
	assert.Zero(t, researched)
	assert.Equal(t, []string{"gas credit cards signup bonuses 2025"}, queries)
}

func TestResearchCards(t *testing.T) {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockSearcher(ctrl)
	searcher.EXPECT().Search(gomock.Any(), gomock.Any(), researchCount).AnyTimes().Return([]domain.SearchResult{
		{Title: "issuer", URL: "https://www.chase.com/sapphire"},
		{Title: "forum", URL: "https://creditboards.example/thread"},
		{Title: "noise", URL: "https://example.com"},
	}, nil)

	tx := domain.Transaction{Merchant: "Unknown", Category: "travel"}
	summary := New(searcher, time.Second).ResearchCards(context.Background(),
		[]domain.DiscoveredCard{{CardName: "Chase Sapphire Reserve"}}, tx)

	assert.Len(t, summary.QueriesUsed, 3)
	assert.Equal(t, 1, summary.CardsResearched)
	assert.Equal(t, 6, summary.TotalSources)
	assert.Equal(t, 3, summary.CredibleSources)
}
