package telegram

import (
	"fmt"
	"strings"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/format"
	"card-optimizer/internal/service"
)

const helpText = "💳 *Card Optimizer*\n\n" +
	"Describe a purchase and I'll tell you which card to use.\n" +
	"Example: `buying $5.50 coffee at Starbucks`\n\n" +
	"Commands:\n" +
	"`/cards` — cards in the catalog\n" +
	"`/help` — this message"

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string { return markdownEscaper.Replace(s) }

// formatResponse renders an optimization answer as Telegram Markdown.
func formatResponse(resp service.Response) string {
	tx := resp.Transaction
	var b strings.Builder

	fmt.Fprintf(&b, "🧾 *%s* · %s · %s\n", escape(tx.Merchant), format.Currency(tx.Amount), tx.Category)

	rec := resp.Recommendation
	tiers := []struct {
		label string
		entry *domain.RecommendationEntry
	}{
		{"🥇 Best", rec.BestOverall},
		{"🥈 Runner-up", rec.RunnerUp},
		{"🥉 Alternative", rec.Alternative},
	}
	for _, t := range tiers {
		if t.entry == nil {
			continue
		}
		e := t.entry
		fmt.Fprintf(&b, "\n%s: *%s*\n", t.label, escape(e.Name))
		fmt.Fprintf(&b, "Reward %s (%s), fee %s\n", format.Currency(e.RewardAmount), escape(e.RewardRate), format.WholeCurrency(e.AnnualFee))
	}
	if rec.BestOverall == nil {
		b.WriteString("\nNo card recommendation available.\n")
	}

	if p := resp.PortfolioBest; p != nil {
		fmt.Fprintf(&b, "\n👛 From your catalog: *%s* earns %s\n", escape(p.Name), format.Currency(p.RewardAmount))
	}

	fi := resp.FinancialImpact
	fmt.Fprintf(&b, "\n💸 %s\n📈 %s", escape(fi.OpportunityCost), escape(fi.AnnualProjection))

	if resp.Outcome.IsFallback() {
		fmt.Fprintf(&b, "\n\n⚠️ Demo data: %s", escape(resp.Outcome.Reason))
	}
	return b.String()
}

func formatCards(cards []domain.Card) string {
	if len(cards) == 0 {
		return "📭 The catalog is empty"
	}
	lines := []string{"💳 *Cards in the catalog*"}
	for _, c := range cards {
		lines = append(lines, fmt.Sprintf("- %s (%s), fee %s", escape(c.Name), escape(c.Issuer), format.WholeCurrency(c.AnnualFee)))
	}
	return strings.Join(lines, "\n")
}
