// Package volatility interpolates implied volatility from a sparse surface.
package volatility

import (
	"math"
	"time"

	"options-simulator/internal/models"
)

// FloorPercent is the minimum volatility ever returned, on percentage scale.
// Zero or negative vol would destabilize Black-Scholes downstream.
const FloorPercent = 0.01

// Normalize converts a quoted implied volatility to percentage scale.
// Upstream feeds quote IV either as a fraction (0.235) or a percentage
// (23.5); values below 1 are taken to be fractions.
func Normalize(iv float64) float64 {
	if iv < 1 {
		return iv * 100
	}
	return iv
}

// ForContract returns the implied volatility (percentage scale) to price a
// contract with at a simulated future date.
//
// With a surface available, the strike smile is interpolated at the two
// tenors bracketing the contract's simulated days-to-expiration, then
// blended across the tenor axis linearly in total variance. Evaluated
// exactly at a grid point this reproduces the stored value. Outside the
// grid the nearest tenor/strike is held constant.
//
// Without a surface, or when the surface has no usable tenors, the
// contract's own quoted IV is used. The result is always clamped to
// FloorPercent.
func ForContract(c models.OptionContract, daysNow, daysSimulated int, now time.Time, surface *models.VolSurface) float64 {
	daysPassed := daysNow - daysSimulated
	if daysPassed < 0 {
		daysPassed = 0
	}
	if v, ok := fromSurface(c.Strike, daysSimulated, daysPassed, now, surface); ok {
		return clamp(v)
	}
	if c.ImpliedVolatility != nil && *c.ImpliedVolatility > 0 {
		return clamp(Normalize(*c.ImpliedVolatility))
	}
	return FloorPercent
}

func clamp(v float64) float64 {
	if v < FloorPercent {
		return FloorPercent
	}
	return v
}

type tenorSmile struct {
	days   int // remaining term at the simulated date
	points []models.VolSurfacePoint
}

// fromSurface interpolates the surface at the contract's strike and
// simulated remaining term. Each surface tenor is placed on the term axis by
// its own days-to-expiration at the simulated date, so a contract expiring
// on a grid expiration lands exactly on that knot.
func fromSurface(strike float64, daysSimulated, daysPassed int, now time.Time, surface *models.VolSurface) (float64, bool) {
	if surface == nil || len(surface.Tenors) == 0 {
		return 0, false
	}

	smiles := make([]tenorSmile, 0, len(surface.Tenors))
	for _, t := range surface.SortedTenors() {
		if len(t.Points) == 0 {
			continue
		}
		term := calendarDays(now, t.Expiration) - daysPassed
		if term < 0 {
			// Tenor already expired at the simulated date; useless as a knot.
			continue
		}
		smiles = append(smiles, tenorSmile{days: term, points: t.Points})
	}
	if len(smiles) == 0 {
		return 0, false
	}

	// Constant extrapolation outside the tenor range.
	if daysSimulated <= smiles[0].days {
		return smileVol(smiles[0].points, strike), true
	}
	last := smiles[len(smiles)-1]
	if daysSimulated >= last.days {
		return smileVol(last.points, strike), true
	}

	for i := 1; i < len(smiles); i++ {
		lo, hi := smiles[i-1], smiles[i]
		if daysSimulated > hi.days {
			continue
		}
		if daysSimulated == hi.days || hi.days == lo.days {
			return smileVol(hi.points, strike), true
		}
		volLo := smileVol(lo.points, strike)
		volHi := smileVol(hi.points, strike)
		// Blend linearly in total variance sigma^2*T: monotonic between
		// knots and exact at them.
		tLo, tHi, tAt := float64(lo.days), float64(hi.days), float64(daysSimulated)
		varLo := volLo * volLo * tLo
		varHi := volHi * volHi * tHi
		w := (tAt - tLo) / (tHi - tLo)
		totalVar := varLo + w*(varHi-varLo)
		if tAt <= 0 || totalVar <= 0 {
			return volLo, true
		}
		return math.Sqrt(totalVar / tAt), true
	}
	return smileVol(last.points, strike), true
}

// smileVol interpolates a single-tenor smile linearly in vol across strikes,
// holding the edge values constant beyond the wings.
func smileVol(points []models.VolSurfacePoint, strike float64) float64 {
	if strike <= points[0].Strike {
		return points[0].ImpliedVol
	}
	n := len(points)
	if strike >= points[n-1].Strike {
		return points[n-1].ImpliedVol
	}
	for i := 1; i < n; i++ {
		lo, hi := points[i-1], points[i]
		if strike > hi.Strike {
			continue
		}
		if strike == hi.Strike {
			return hi.ImpliedVol
		}
		w := (strike - lo.Strike) / (hi.Strike - lo.Strike)
		return lo.ImpliedVol + w*(hi.ImpliedVol-lo.ImpliedVol)
	}
	return points[n-1].ImpliedVol
}

func calendarDays(from, to time.Time) int {
	fy, fm, fd := from.UTC().Date()
	ty, tm, td := to.UTC().Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
