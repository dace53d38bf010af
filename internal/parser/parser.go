// Package parser turns a natural-language purchase description into a Transaction.
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/llm"

	"github.com/shopspring/decimal"
)

const (
	DefaultTimeout     = 8 * time.Second
	fallbackConfidence = 0.7
	defaultConfidence  = 0.95
	maxTokens          = 500
)

// Source records which path produced a parsed transaction.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceKeywords Source = "keywords"
)

var amountPattern = regexp.MustCompile(`\$?(\d[\d,]*\.?\d*)`)

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{domain.CategoryDining, []string{"starbucks", "coffee", "cafe", "restaurant", "dining"}},
	{domain.CategoryGrocery, []string{"grocery", "whole foods", "walmart", "target"}},
	{domain.CategoryGas, []string{"gas", "shell", "exxon", "chevron"}},
	{domain.CategoryTravel, []string{"flight", "hotel", "travel", "trip", "airline"}},
}

var knownMerchants = []struct{ keyword, name string }{
	{"starbucks", "Starbucks"},
	{"whole foods", "Whole Foods"},
}

type Parser struct {
	client  llm.Client
	timeout time.Duration
}

// New returns a parser. client may be nil, in which case only keyword parsing is used.
func New(client llm.Client, timeout time.Duration) *Parser {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Parser{client: client, timeout: timeout}
}

// Parse never fails: when the model is missing, slow or returns garbage the keyword
// parser answers instead. The original query is always attached to the result.
func (p *Parser) Parse(ctx context.Context, query string) (domain.Transaction, Source) {
	if p.client == nil {
		return Fallback(query), SourceKeywords
	}

	tx, err := p.parseWithLLM(ctx, query)
	if err != nil {
		slog.Warn("LLM transaction parsing failed, using keyword parser", "error", err)
		return Fallback(query), SourceKeywords
	}
	return tx, SourceLLM
}

type llmTransaction struct {
	Merchant         string          `json:"merchant"`
	Amount           decimal.Decimal `json:"amount"`
	Category         string          `json:"category"`
	Confidence       *float64        `json:"confidence"`
	ExtractedContext []string        `json:"extracted_context"`
	Reasoning        string          `json:"ai_reasoning"`
}

func (p *Parser) parseWithLLM(ctx context.Context, query string) (domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	reply, err := p.client.Complete(ctx, buildPrompt(query), maxTokens)
	if err != nil {
		return domain.Transaction{}, err
	}

	var parsed llmTransaction
	if err := llm.DecodeJSON(reply, &parsed); err != nil {
		return domain.Transaction{}, fmt.Errorf("decode transaction: %w", err)
	}

	tx := domain.NewTransaction(parsed.Merchant, parsed.Amount, parsed.Category, query)
	tx.Confidence = defaultConfidence
	if parsed.Confidence != nil {
		tx.Confidence = clamp01(*parsed.Confidence)
	}
	tx.ExtractedContext = parsed.ExtractedContext
	tx.Reasoning = parsed.Reasoning

	slog.Info("Parsed transaction", "merchant", tx.Merchant, "amount", tx.Amount.String(), "category", tx.Category)
	return tx, nil
}

// Fallback parses query with keyword rules only.
func Fallback(query string) domain.Transaction {
	amount := decimal.Zero
	if m := amountPattern.FindStringSubmatch(query); m != nil {
		if v, err := decimal.NewFromString(strings.TrimSuffix(strings.ReplaceAll(m[1], ",", ""), ".")); err == nil {
			amount = v
		}
	}

	lower := strings.ToLower(query)
	category := domain.CategoryOther
	for _, rule := range categoryKeywords {
		if containsAny(lower, rule.words) {
			category = rule.category
			break
		}
	}

	merchant := ""
	for _, m := range knownMerchants {
		if strings.Contains(lower, m.keyword) {
			merchant = m.name
			break
		}
	}

	tx := domain.NewTransaction(merchant, amount, category, query)
	tx.Confidence = fallbackConfidence
	tx.ExtractedContext = []string{"Parsed without API"}
	tx.Reasoning = "Fallback keyword-based parsing"
	return tx
}

func buildPrompt(query string) string {
	return fmt.Sprintf(`Parse this financial transaction request and extract structured data:
%q

Return ONLY valid JSON with these fields:
{
    "merchant": "exact merchant name or 'Unknown' if not specified",
    "amount": numeric_amount_or_0,
    "category": "one of: %s",
    "confidence": 0.0-1.0,
    "extracted_context": ["additional context about merchant/purchase"],
    "ai_reasoning": "brief explanation of parsing decisions"
}

Examples:
- "buying $5.50 coffee at Starbucks" -> dining category, high confidence
- "grocery shopping $120 at Whole Foods" -> grocery category, high confidence
- "planning $2000 Europe trip" -> travel category, high confidence
`, query, strings.Join(domain.Categories(), ", "))
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
