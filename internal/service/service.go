// Package service wires the parser, market discovery, the advisor and the card catalog
// around the optimizer core.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"card-optimizer/internal/advisor"
	"card-optimizer/internal/domain"
	"card-optimizer/internal/optimizer"
	"card-optimizer/internal/parser"
	"card-optimizer/internal/search"
	"card-optimizer/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Response is the full answer to one optimization query.
type Response struct {
	RequestID       string                      `json:"request_id"`
	Transaction     domain.Transaction          `json:"transaction"`
	ParsedBy        parser.Source               `json:"parsed_by"`
	Frequency       optimizer.Frequency         `json:"frequency"`
	MarketAnalysis  domain.MarketAnalysis       `json:"market_analysis"`
	Recommendation  domain.RankedRecommendation `json:"recommendation"`
	FinancialImpact domain.FinancialImpact      `json:"financial_impact"`
	PortfolioBest   *PortfolioCard              `json:"portfolio_best,omitempty"`
	Outcome         domain.Outcome              `json:"outcome"`
}

// PortfolioCard is the catalog card paying the most on a purchase before fees.
type PortfolioCard struct {
	CardID       string          `json:"card_id"`
	Name         string          `json:"name"`
	RewardAmount decimal.Decimal `json:"reward_amount"`
	RewardRate   string          `json:"reward_rate"`
}

type Health struct {
	Status            string          `json:"status"`
	Service           string          `json:"service"`
	APIKeysConfigured map[string]bool `json:"api_keys_configured"`
}

type Optimizer struct {
	store     storage.Storage
	parser    *parser.Parser
	discovery *search.Service
	advisor   *advisor.Advisor
	llmReady  bool
	now       func() time.Time
}

// New builds the service. llmReady tells it whether the advisor has a working model
// behind it; without one the optimizer's own ranking is the answer.
func New(store storage.Storage, p *parser.Parser, discovery *search.Service, adv *advisor.Advisor, llmReady bool) *Optimizer {
	return &Optimizer{
		store:     store,
		parser:    p,
		discovery: discovery,
		advisor:   adv,
		llmReady:  llmReady,
		now:       time.Now,
	}
}

// Optimize answers query. It always returns a usable response: when a collaborator fails
// the answer is built from canned data and Outcome says so.
func (o *Optimizer) Optimize(ctx context.Context, query string) Response {
	requestID := uuid.NewString()
	log := slog.With("request_id", requestID)
	log.Info("Optimization request", "query", query)

	tx, parsedBy := o.parser.Parse(ctx, query)
	log.Info("Transaction parsed", "source", parsedBy, "merchant", tx.Merchant, "amount", tx.Amount.String(), "category", tx.Category)

	analysis := o.discovery.Discover(ctx, tx.Category)
	discovered := o.advisor.ExtractCards(ctx, analysis.Results, tx.Category)

	cards, err := o.store.ListActiveCards(ctx)
	if err != nil {
		log.Error("Card catalog unavailable", "error", err)
		resp := Fallback(query, &tx, "card catalog unavailable")
		resp.RequestID, resp.ParsedBy = requestID, parsedBy
		return resp
	}

	result := optimizer.Optimize(tx, cards, discovered)
	if result.Outcome.IsFallback() {
		log.Warn("Optimizer produced no recommendation", "reason", result.Outcome.Reason)
		resp := Fallback(query, &tx, result.Outcome.Reason)
		resp.RequestID, resp.ParsedBy = requestID, parsedBy
		return resp
	}

	if o.llmReady {
		research := o.discovery.ResearchCards(ctx, discovered, tx)
		rec, err := o.advisor.Recommend(ctx, tx, discovered, research, result.Frequency)
		if err != nil {
			log.Warn("Model recommendation failed, keeping optimizer ranking", "error", err)
		} else {
			result.Recommendation = rec
			result.Impact = optimizer.Summarize(tx, &rec, result.Frequency)
		}
	}

	resp := Response{
		RequestID:       requestID,
		Transaction:     tx,
		ParsedBy:        parsedBy,
		Frequency:       result.Frequency,
		MarketAnalysis:  analysis,
		Recommendation:  result.Recommendation,
		FinancialImpact: result.Impact,
		Outcome:         result.Outcome,
	}
	if best := result.HighestReward; best != nil {
		resp.PortfolioBest = &PortfolioCard{
			CardID:       best.CardID,
			Name:         best.Name,
			RewardAmount: best.RewardAmount,
			RewardRate:   best.RewardRate,
		}
	}

	o.record(ctx, resp, cards)
	if b := resp.Recommendation.BestOverall; b != nil {
		log.Info("Optimization complete", "best_overall", b.Name, "reward", b.RewardAmount.String())
	}
	return resp
}

// record logs the purchase and its recommendation to history. Failures are only logged.
func (o *Optimizer) record(ctx context.Context, resp Response, cards []domain.Card) {
	best := resp.Recommendation.BestOverall
	if best == nil {
		return
	}
	rec := domain.PurchaseRecord{
		ID:                  uuid.NewString(),
		Merchant:            resp.Transaction.Merchant,
		Amount:              resp.Transaction.Amount,
		Category:            resp.Transaction.Category,
		RecommendedCardID:   catalogID(cards, best.Name),
		RecommendedCardName: best.Name,
		RewardEarned:        best.RewardAmount,
		Date:                o.now().UTC(),
	}
	if err := o.store.SaveTransaction(ctx, rec); err != nil {
		slog.Warn("Failed to record transaction", "request_id", resp.RequestID, "error", err)
	}
}

func catalogID(cards []domain.Card, name string) string {
	for _, c := range cards {
		if strings.EqualFold(c.Name, name) {
			return c.ID
		}
	}
	return ""
}

// Health reports which external services are configured.
func (o *Optimizer) Health() Health {
	return Health{
		Status:  "healthy",
		Service: "Card Optimizer",
		APIKeysConfigured: map[string]bool{
			"claude": o.llmReady,
			"brave":  o.discovery.Live(),
		},
	}
}

// Cards lists the active catalog.
func (o *Optimizer) Cards(ctx context.Context) ([]domain.Card, error) {
	return o.store.ListActiveCards(ctx)
}

// History lists the most recent purchases, newest first.
func (o *Optimizer) History(ctx context.Context, limit int) ([]domain.PurchaseRecord, error) {
	return o.store.ListTransactions(ctx, limit)
}
