// Package search runs market discovery: web searches for card offers in a purchase
// category, filtered down to credible sources.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"card-optimizer/internal/catalog"
	"card-optimizer/internal/domain"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout = 10 * time.Second

	discoveryCount  = 8
	researchCount   = 5
	maxResearch     = 5
	researchedCards = 3
	maxConcurrent   = 3
)

var currentYear = func() int { return time.Now().Year() }

// Service fans search queries out concurrently. Every query that fails or times out is
// answered from canned results so callers always get a usable analysis.
type Service struct {
	searcher Searcher
	timeout  time.Duration
}

// New returns a discovery service. searcher may be nil, which serves canned results only.
func New(searcher Searcher, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{searcher: searcher, timeout: timeout}
}

// Live reports whether a real search backend is configured.
func (s *Service) Live() bool {
	return s.searcher != nil
}

// Discover searches broadly for cards rewarding category.
func (s *Service) Discover(ctx context.Context, category string) domain.MarketAnalysis {
	queries := DiscoveryQueries(category)
	branches := s.fanOut(ctx, queries, discoveryCount)

	analysis := domain.MarketAnalysis{
		Results:     []domain.SearchResult{},
		QueriesUsed: queries,
	}
	for _, results := range branches {
		analysis.Results = append(analysis.Results, FilterCredible(results)...)
	}
	analysis.TotalSources = len(analysis.Results)

	slog.Info("Market discovery finished", "category", category, "sources", analysis.TotalSources)
	return analysis
}

// ResearchCards runs targeted searches on the leading discovered cards and the merchant.
func (s *Service) ResearchCards(ctx context.Context, cards []domain.DiscoveredCard, tx domain.Transaction) domain.ResearchSummary {
	queries, researched := ResearchQueries(cards, tx)
	branches := s.fanOut(ctx, queries, researchCount)

	summary := domain.ResearchSummary{QueriesUsed: queries, CardsResearched: researched}
	for _, results := range branches {
		for _, r := range FilterCredible(results) {
			summary.Results = append(summary.Results, r)
			if r.Credibility == CredibilityHigh {
				summary.CredibleSources++
			}
		}
	}
	summary.TotalSources = len(summary.Results)
	return summary
}

func DiscoveryQueries(category string) []string {
	year := currentYear()
	return []string{
		fmt.Sprintf("best %s credit cards %d cash back rewards comparison", category, year),
		fmt.Sprintf("highest %s credit card rates %d", category, year),
		fmt.Sprintf("%s credit cards 6%% 5%% 4%% rewards current offers", category),
	}
}

// ResearchQueries builds at most five targeted queries. It also returns how many cards they cover.
func ResearchQueries(cards []domain.DiscoveredCard, tx domain.Transaction) ([]string, int) {
	year := currentYear()
	var queries []string
	researched := 0
	for _, c := range cards[:min(len(cards), researchedCards)] {
		if c.CardName == "" {
			continue
		}
		researched++
		queries = append(queries,
			fmt.Sprintf("%s %s rewards rate annual fee %d", c.CardName, tx.Category, year),
			fmt.Sprintf("%s signup bonus current %d", c.CardName, year),
		)
	}
	if tx.Merchant != "" && tx.Merchant != "Unknown" {
		queries = append(queries, fmt.Sprintf("%s merchant category code MCC %s", tx.Merchant, tx.Category))
	}
	queries = append(queries, fmt.Sprintf("%s credit cards signup bonuses %d", tx.Category, year))

	if len(queries) > maxResearch {
		queries = queries[:maxResearch]
	}
	return queries, researched
}

// fanOut runs every query concurrently under one deadline. Results keep query order.
// A failing branch is replaced by canned results and never cancels its siblings.
func (s *Service) fanOut(ctx context.Context, queries []string, count int) [][]domain.SearchResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := make([][]domain.SearchResult, len(queries))
	var (
		mu   sync.Mutex
		errs error
		g    errgroup.Group
	)
	g.SetLimit(maxConcurrent)

	for i, q := range queries {
		g.Go(func() error {
			results, err := s.search(ctx, q, count)
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("search %q: %w", q, err))
				mu.Unlock()
				results = catalog.FallbackSearchResults(q)
			}
			out[i] = results
			return nil
		})
	}
	_ = g.Wait()

	if errs != nil {
		slog.Warn("Search queries fell back to canned results",
			"failed", len(multierr.Errors(errs)), "total", len(queries), "error", errs)
	}
	return out
}

func (s *Service) search(ctx context.Context, query string, count int) ([]domain.SearchResult, error) {
	if s.searcher == nil {
		slog.Debug("No search backend configured, using canned results", "query", query)
		return catalog.FallbackSearchResults(query), nil
	}
	return s.searcher.Search(ctx, query, count)
}
