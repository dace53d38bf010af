package search

import (
	"strings"

	"card-optimizer/internal/domain"
)

const (
	CredibilityHigh   = "high"
	CredibilityMedium = "medium"
)

var credibleDomains = []string{
	"nerdwallet.com", "creditcards.com", "thepointsguy.com",
	"bankrate.com", "chase.com", "americanexpress.com",
	"capitalone.com", "citi.com", "discover.com",
	"creditkarma.com", "wallethub.com", "usnews.com",
}

var financeTerms = []string{"bank", "credit", "finance"}

// Credibility grades a result URL: known personal-finance and issuer sites are high,
// other URLs mentioning banking or credit are medium, anything else is empty.
func Credibility(rawURL string) string {
	u := strings.ToLower(rawURL)
	for _, d := range credibleDomains {
		if strings.Contains(u, d) {
			return CredibilityHigh
		}
	}
	for _, term := range financeTerms {
		if strings.Contains(u, term) {
			return CredibilityMedium
		}
	}
	return ""
}

// FilterCredible keeps high and medium credibility results and labels them.
func FilterCredible(results []domain.SearchResult) []domain.SearchResult {
	out := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if c := Credibility(r.URL); c != "" {
			r.Credibility = c
			out = append(out, r)
		}
	}
	return out
}
