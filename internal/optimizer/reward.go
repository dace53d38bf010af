package optimizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/format"

	"github.com/shopspring/decimal"
)

// DefaultPointValue is used for points cards that do not state a point value (1 cent per point).
const DefaultPointValue = 0.01

var hundred = decimal.NewFromInt(100)

// ComputeReward returns the dollar reward of tx on a card with structure rs, rounded to cents.
// ok is false when rs is missing or malformed; the reward is then zero and the caller should log it.
//
// Annual caps are not applied: no year-to-date spend is tracked, so a cap cannot be checked.
func ComputeReward(rs *domain.RewardStructure, tx domain.Transaction) (reward decimal.Decimal, ok bool) {
	rate, pointValue, err := effectiveRate(rs, tx.Category)
	if err != nil {
		return decimal.Zero, false
	}
	if tx.Amount.IsNegative() {
		return decimal.Zero, true
	}

	raw := tx.Amount.Mul(decimal.NewFromFloat(rate)).Div(hundred)
	if rs.RewardType == domain.RewardPoints {
		raw = raw.Mul(decimal.NewFromFloat(pointValue))
	}
	return raw.Round(2), true
}

// effectiveRate picks the category override, else the default rate.
func effectiveRate(rs *domain.RewardStructure, category string) (rate, pointValue float64, err error) {
	if rs == nil {
		return 0, 0, domain.ErrInvalidRewardStructure
	}

	rate = rs.DefaultRate
	if r, found := lookupCategory(rs.Categories, category); found {
		rate = r
	}
	if !validNumber(rate) {
		return 0, 0, fmt.Errorf("%w: rate %v", domain.ErrInvalidRewardStructure, rate)
	}

	pointValue = rs.PointValue
	if rs.RewardType == domain.RewardPoints {
		if pointValue == 0 {
			pointValue = DefaultPointValue
		}
		if !validNumber(pointValue) {
			return 0, 0, fmt.Errorf("%w: point value %v", domain.ErrInvalidRewardStructure, pointValue)
		}
	}
	return rate, pointValue, nil
}

func lookupCategory(categories map[string]float64, category string) (float64, bool) {
	if r, ok := categories[category]; ok {
		return r, true
	}
	r, ok := categories[strings.ToLower(category)]
	return r, ok
}

func validNumber(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// describeStructure renders the rate that applies to category, e.g. "4% cash back on dining".
func describeStructure(rs *domain.RewardStructure, category string) string {
	rate, pointValue, err := effectiveRate(rs, category)
	if err != nil {
		return "unknown rate"
	}
	_, override := lookupCategory(rs.Categories, category)
	scope := "on everything else"
	if override {
		scope = "on " + category
	}
	if rs.RewardType == domain.RewardPoints {
		return fmt.Sprintf("%sx points %s (%s¢/point)",
			decimal.NewFromFloat(rate).String(), scope, decimal.NewFromFloat(pointValue*100).String())
	}
	return fmt.Sprintf("%s cash back %s", format.Percent(rate), scope)
}

// traceStructure shows the arithmetic behind ComputeReward.
func traceStructure(rs *domain.RewardStructure, tx domain.Transaction, reward decimal.Decimal) string {
	rate, pointValue, err := effectiveRate(rs, tx.Category)
	if err != nil {
		return "reward structure unavailable, counted as $0.00"
	}
	trace := fmt.Sprintf("%s × %s", format.Currency(tx.Amount), format.Percent(rate))
	if rs.RewardType == domain.RewardPoints {
		trace += fmt.Sprintf(" × $%s/point", decimal.NewFromFloat(pointValue).String())
	}
	trace += " = " + format.Currency(reward)
	if limit, capped := lookupCategory(rs.AnnualCaps, tx.Category); capped {
		trace += fmt.Sprintf(" (annual cap %s not applied)", format.WholeCurrency(decimal.NewFromFloat(limit)))
	}
	return trace
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !validNumber(v) {
		return 0, false
	}
	return v, true
}
