package optimizer

import (
	"fmt"
	"regexp"
	"strings"

	"card-optimizer/internal/format"

	"github.com/shopspring/decimal"
)

const (
	// PointConversion is the dollar value assumed for one point or mile in a free-text rate,
	// a representative average across the major loyalty programs.
	PointConversion = 0.015

	// BaselineRate is the percent used when a rate string has nothing we can read.
	// Unreadable rates are treated as an average generic cash back card, not as zero.
	BaselineRate = 2.0
)

var (
	percentPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
	multiplierPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)x`)
)

type RateKind int

const (
	RatePercentage RateKind = iota
	RatePointsMultiplier
	RateBaseline
)

// Rate is a reward-rate description resolved once at parse time.
type Rate struct {
	Kind RateKind
	// Value is a percent for RatePercentage/RateBaseline and a per-dollar multiplier for RatePointsMultiplier.
	Value float64
	// Conversion is dollars per point; only set for RatePointsMultiplier.
	Conversion float64
}

func Percentage(value float64) Rate {
	return Rate{Kind: RatePercentage, Value: value}
}

func PointsMultiplier(value, conversion float64) Rate {
	return Rate{Kind: RatePointsMultiplier, Value: value, Conversion: conversion}
}

func Baseline() Rate {
	return Rate{Kind: RateBaseline, Value: BaselineRate}
}

// ParseRate reads a free-form rate such as "4% cash back" or "3x points on dining".
// The first "<n>%" wins; otherwise "<n>x" counts only if the text mentions points or miles;
// anything else is the 2% baseline. It never fails.
func ParseRate(s string) Rate {
	if m := percentPattern.FindStringSubmatch(s); m != nil {
		if v, ok := parseFloat(m[1]); ok {
			return Percentage(v)
		}
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "point") || strings.Contains(lower, "mile") {
		if m := multiplierPattern.FindStringSubmatch(s); m != nil {
			if v, ok := parseFloat(m[1]); ok {
				return PointsMultiplier(v, PointConversion)
			}
		}
	}

	return Baseline()
}

// Reward converts the rate into dollars for amount, rounded to cents.
func (r Rate) Reward(amount decimal.Decimal) decimal.Decimal {
	var raw decimal.Decimal
	switch r.Kind {
	case RatePointsMultiplier:
		raw = amount.Mul(decimal.NewFromFloat(r.Value)).Mul(decimal.NewFromFloat(r.Conversion))
	default:
		raw = amount.Mul(decimal.NewFromFloat(r.Value)).Div(hundred)
	}
	return raw.Round(2)
}

// Trace shows the arithmetic behind Reward.
func (r Rate) Trace(amount decimal.Decimal) string {
	reward := format.Currency(r.Reward(amount))
	switch r.Kind {
	case RatePointsMultiplier:
		return fmt.Sprintf("%s × %s points × $%s/point = %s",
			format.Currency(amount), decimal.NewFromFloat(r.Value).String(),
			decimal.NewFromFloat(r.Conversion).String(), reward)
	case RateBaseline:
		return fmt.Sprintf("%s × %s (baseline, rate not recognized) = %s",
			format.Currency(amount), format.Percent(r.Value), reward)
	default:
		return fmt.Sprintf("%s × %s = %s cash back", format.Currency(amount), format.Percent(r.Value), reward)
	}
}

func (r Rate) String() string {
	switch r.Kind {
	case RatePointsMultiplier:
		return decimal.NewFromFloat(r.Value).String() + "x points"
	case RateBaseline:
		return format.Percent(r.Value) + " baseline"
	default:
		return format.Percent(r.Value) + " cash back"
	}
}
