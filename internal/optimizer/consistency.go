package optimizer

import (
	"fmt"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/format"
)

// Reconcile enforces that best overall nets at least as much as the runner-up, using the same
// net value as Rank. A runner-up with no reward is never promoted. When the two are swapped their
// reasoning is rewritten to show the comparison. Reports whether a swap happened.
func Reconcile(rec *domain.RankedRecommendation, freq Frequency) bool {
	if rec == nil {
		return false
	}
	for _, e := range rec.Entries() {
		e.NetValue = NetValue(e.RewardAmount, e.AnnualFee, freq).Round(2)
	}
	if rec.BestOverall == nil || rec.RunnerUp == nil {
		return false
	}

	best, runner := rec.BestOverall, rec.RunnerUp
	bestNet := NetValue(best.RewardAmount, best.AnnualFee, freq)
	runnerNet := NetValue(runner.RewardAmount, runner.AnnualFee, freq)
	if runnerNet.LessThanOrEqual(bestNet) || !runner.RewardAmount.IsPositive() {
		return false
	}

	rec.BestOverall, rec.RunnerUp = runner, best
	runner.Reasoning = fmt.Sprintf(
		"Higher net value: %s per purchase with a %s annual fee nets %s, beating %s (%s with a %s fee, net %s)",
		format.Currency(runner.RewardAmount), format.Currency(runner.AnnualFee), format.Currency(runnerNet),
		best.Name, format.Currency(best.RewardAmount), format.Currency(best.AnnualFee), format.Currency(bestNet))
	best.Reasoning = fmt.Sprintf(
		"Lower net value despite good rewards: %s after its %s annual fee, versus %s for %s",
		format.Currency(bestNet), format.Currency(best.AnnualFee), format.Currency(runnerNet), runner.Name)
	return true
}
