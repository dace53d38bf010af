// cmd/optimize/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"card-optimizer/internal/app"
	"card-optimizer/internal/config"
	"card-optimizer/internal/domain"
	"card-optimizer/internal/format"
	"card-optimizer/internal/service"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	amountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		asJSON  bool
		offline bool
		dbURL   string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "optimize <purchase description>",
		Short: "Pick the best credit card for a purchase",
		Long: `Describe a purchase in plain English and get the card that earns the most on it.

Examples:
  optimize "buying $5.50 coffee at Starbucks"
  optimize --offline "weekly groceries $120 at Whole Foods"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustLoad()
			level := "warn"
			if verbose {
				level = "debug"
			}
			if err := config.SetupLogging(os.Stderr, level, "text"); err != nil {
				return err
			}
			if dbURL != "" {
				cfg.DBConn = dbURL
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg, strings.Join(args, " "), offline, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response as JSON")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the language model and web search")
	cmd.Flags().StringVar(&dbURL, "db", "memory://", "card catalog database (memory://, sqlite://path or postgres URL)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func run(ctx context.Context, out io.Writer, cfg config.Config, query string, offline, asJSON bool) error {
	a, err := app.Build(ctx, cfg, app.Options{Offline: offline, SeedDemo: true})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}()

	resp := a.Service.Optimize(ctx, query)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	_, err = fmt.Fprint(out, render(resp))
	return err
}

func render(resp service.Response) string {
	var b strings.Builder
	tx := resp.Transaction

	fmt.Fprintln(&b, titleStyle.Render("💳 Card Optimizer"))
	fmt.Fprintf(&b, "%s %s at %s (%s)\n\n", labelStyle.Render("Purchase:"),
		amountStyle.Render(format.Currency(tx.Amount)), tx.Merchant, tx.Category)

	rec := resp.Recommendation
	tiers := []struct {
		label string
		entry *domain.RecommendationEntry
	}{
		{"Best overall", rec.BestOverall},
		{"Runner-up", rec.RunnerUp},
		{"Alternative", rec.Alternative},
	}
	for _, t := range tiers {
		if t.entry == nil {
			continue
		}
		e := t.entry
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(t.label+":"), e.Name)
		fmt.Fprintf(&b, "  reward %s (%s), annual fee %s, net %s\n",
			amountStyle.Render(format.Currency(e.RewardAmount)), e.RewardRate,
			format.WholeCurrency(e.AnnualFee), format.Currency(e.NetValue))
		if e.CalculationTrace != "" {
			fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(e.CalculationTrace))
		}
		if e.Reasoning != "" {
			fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(e.Reasoning))
		}
	}

	if p := resp.PortfolioBest; p != nil {
		fmt.Fprintf(&b, "\n%s %s earns %s\n", labelStyle.Render("Best from catalog:"), p.Name, amountStyle.Render(format.Currency(p.RewardAmount)))
	}

	fi := resp.FinancialImpact
	fmt.Fprintf(&b, "\n%s %s\n", labelStyle.Render("Opportunity cost:"), fi.OpportunityCost)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Annual projection:"), fi.AnnualProjection)

	if resp.Outcome.IsFallback() {
		fmt.Fprintf(&b, "\n%s\n", warnStyle.Render("⚠ Fallback data: "+resp.Outcome.Reason))
	}
	return b.String()
}
