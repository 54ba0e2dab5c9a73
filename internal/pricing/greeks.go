package pricing

import (
	"math"

	"options-simulator/internal/models"
)

// Greeks holds the standard option sensitivities. Theta is per calendar day,
// vega and rho per percentage point.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// ComputeGreeks returns Black-Scholes greeks for a single contract. With no
// time remaining the greeks degenerate to the settlement delta.
func ComputeGreeks(p Params, kind models.OptionKind, strike, underlying float64, daysToExpiration int, volatilityPercent, dividendYield float64) Greeks {
	if daysToExpiration <= 0 || underlying <= 0 || strike <= 0 || volatilityPercent <= 0 {
		var delta float64
		if IntrinsicValue(kind, strike, underlying) > 0 {
			delta = 1
			if kind == models.KindPut {
				delta = -1
			}
		}
		return Greeks{Delta: delta}
	}

	T := float64(daysToExpiration) / DaysPerYear
	sigma := volatilityPercent / 100
	r := p.RiskFreeRate
	q := dividendYield

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(underlying/strike) + (r-q+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	expQT := math.Exp(-q * T)
	expRT := math.Exp(-r * T)
	pdf := normPDF(d1)

	g := Greeks{
		Gamma: expQT * pdf / (underlying * sigma * sqrtT),
		Vega:  underlying * expQT * pdf * sqrtT / 100,
	}

	if kind == models.KindPut {
		g.Delta = expQT * (normCDF(d1) - 1)
		g.Theta = (-underlying*expQT*pdf*sigma/(2*sqrtT) + r*strike*expRT*normCDF(-d2) - q*underlying*expQT*normCDF(-d1)) / DaysPerYear
		g.Rho = -strike * T * expRT * normCDF(-d2) / 100
	} else {
		g.Delta = expQT * normCDF(d1)
		g.Theta = (-underlying*expQT*pdf*sigma/(2*sqrtT) - r*strike*expRT*normCDF(d2) + q*underlying*expQT*normCDF(d1)) / DaysPerYear
		g.Rho = strike * T * expRT * normCDF(d2) / 100
	}
	return g
}
