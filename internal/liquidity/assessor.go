// Package liquidity scores option contracts for tradability.
package liquidity

import (
	"fmt"

	"options-simulator/internal/models"
)

// Score thresholds for bucketing.
const (
	highThreshold   = 80
	mediumThreshold = 60
	lowThreshold    = 40
)

// Assess scores a contract's tradability from open interest, volume and
// bid/ask spread. The result is advisory only: it annotates a simulation,
// never blocks one.
func Assess(c models.OptionContract) models.LiquidityAssessment {
	score := 100.0
	var warnings []string

	// Open interest axis.
	switch {
	case c.OpenInterest < 100:
		score -= 40
		warnings = append(warnings, fmt.Sprintf("very low open interest (%d)", c.OpenInterest))
	case c.OpenInterest < 500:
		score -= 20
		warnings = append(warnings, fmt.Sprintf("low open interest (%d)", c.OpenInterest))
	case c.OpenInterest < 1000:
		score -= 10
		warnings = append(warnings, fmt.Sprintf("moderate open interest (%d)", c.OpenInterest))
	}

	// Volume axis.
	switch {
	case c.Volume < 10:
		score -= 30
		warnings = append(warnings, fmt.Sprintf("very low volume (%d)", c.Volume))
	case c.Volume < 50:
		score -= 15
		warnings = append(warnings, fmt.Sprintf("low volume (%d)", c.Volume))
	case c.Volume < 100:
		score -= 5
		warnings = append(warnings, fmt.Sprintf("moderate volume (%d)", c.Volume))
	}

	// Spread axis. Missing quotes are the worst case: even a leg priced
	// by a custom override cannot be judged tradable without a market.
	if c.Bid <= 0 || c.Ask <= 0 {
		score -= 40
		if c.CustomPremiumOverride != nil {
			warnings = append(warnings, "no quotes (missing bid or ask; custom premium override in effect)")
		} else {
			warnings = append(warnings, "no quotes (missing bid or ask)")
		}
	} else {
		mid := (c.Ask + c.Bid) / 2
		spread := (c.Ask - c.Bid) / mid
		switch {
		case spread > 0.20:
			score -= 30
			warnings = append(warnings, fmt.Sprintf("very wide spread (%.1f%%)", spread*100))
		case spread > 0.10:
			score -= 15
			warnings = append(warnings, fmt.Sprintf("wide spread (%.1f%%)", spread*100))
		case spread > 0.05:
			score -= 5
			warnings = append(warnings, fmt.Sprintf("elevated spread (%.1f%%)", spread*100))
		}
	}

	if score < 0 {
		score = 0
	}

	return models.LiquidityAssessment{
		Symbol:   c.Symbol,
		Level:    bucket(score),
		Score:    score,
		Warnings: warnings,
	}
}

func bucket(score float64) models.LiquidityLevel {
	switch {
	case score >= highThreshold:
		return models.LiquidityHigh
	case score >= mediumThreshold:
		return models.LiquidityMedium
	case score >= lowThreshold:
		return models.LiquidityLow
	default:
		return models.LiquidityVeryLow
	}
}
