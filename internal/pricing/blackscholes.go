// Package pricing provides Black-Scholes theoretical pricing and settlement
// payoff math for single option contracts.
package pricing

import (
	"math"

	"options-simulator/internal/models"
)

// DaysPerYear converts a day count to the year fraction used in pricing.
const DaysPerYear = 365.0

// Params holds the pricing configuration injected from the edges.
// The engine itself never reads global config.
type Params struct {
	// RiskFreeRate is the annualized continuously-compounded rate, as a
	// fraction (0.04 means 4%).
	RiskFreeRate float64

	// DividendYield is the continuous dividend yield applied when an
	// input does not carry its own.
	DividendYield float64

	// ContractMultiplier is the point value assumed for contracts that do
	// not carry their own. Zero means models.DefaultMultiplier.
	ContractMultiplier float64
}

// DefaultParams returns the documented default pricing assumptions.
func DefaultParams() Params {
	return Params{
		RiskFreeRate:       0.04,
		ContractMultiplier: models.DefaultMultiplier,
	}
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// IntrinsicValue returns the exercise value of a contract at the given
// underlying price. Never negative.
func IntrinsicValue(kind models.OptionKind, strike, underlying float64) float64 {
	var v float64
	if kind == models.KindPut {
		v = strike - underlying
	} else {
		v = underlying - strike
	}
	if v < 0 {
		return 0
	}
	return v
}

// TheoreticalPrice returns the Black-Scholes value of a contract with a
// continuous dividend yield q. volatilityPercent is on percentage scale
// (30 means 30%). With no time remaining, or with degenerate inputs that
// would take log or sqrt out of domain, the price collapses to intrinsic
// value (settlement).
func TheoreticalPrice(p Params, kind models.OptionKind, strike, underlying float64, daysToExpiration int, volatilityPercent, dividendYield float64) float64 {
	if daysToExpiration <= 0 {
		return IntrinsicValue(kind, strike, underlying)
	}
	if underlying <= 0 || strike <= 0 || volatilityPercent <= 0 {
		return IntrinsicValue(kind, strike, underlying)
	}

	T := float64(daysToExpiration) / DaysPerYear
	sigma := volatilityPercent / 100
	r := p.RiskFreeRate
	q := dividendYield

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(underlying/strike) + (r-q+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	discS := underlying * math.Exp(-q*T)
	discK := strike * math.Exp(-r*T)

	var price float64
	if kind == models.KindPut {
		price = discK*normCDF(-d2) - discS*normCDF(-d1)
	} else {
		price = discS*normCDF(d1) - discK*normCDF(d2)
	}
	if price < 0 {
		return 0
	}
	return price
}

// EntryPrice resolves the premium a leg was entered at.
//
// A custom override is exclusive: when present it supersedes bid, ask and
// mark premium entirely so mixed pricing cannot occur. Otherwise buys fill
// at the ask and sells at the bid, each falling back to the mark premium.
// ok is false when no source yields a usable price.
func EntryPrice(c models.OptionContract) (price float64, ok bool) {
	if c.CustomPremiumOverride != nil {
		return *c.CustomPremiumOverride, true
	}
	quote := c.Bid
	if c.Action == models.ActionBuy {
		quote = c.Ask
	}
	if quote > 0 {
		return quote, true
	}
	if c.MarkPremium > 0 {
		return c.MarkPremium, true
	}
	return 0, false
}

// ExpirationPayoff returns the signed P&L of a leg settled at the given
// underlying price: (intrinsic - entry) x contracts x multiplier, positive
// for bought legs that finish in the money, mirrored for sold legs.
// ok is false when the leg has no resolvable entry price.
func ExpirationPayoff(c models.OptionContract, underlying float64) (pl float64, ok bool) {
	entry, ok := EntryPrice(c)
	if !ok {
		return 0, false
	}
	intrinsic := IntrinsicValue(c.Kind, c.Strike, underlying)
	return (intrinsic - entry) * float64(c.AbsQuantity()) * c.PointValue() * c.Action.Sign(), true
}

// PLAtScenario returns the signed P&L of closing a leg at its theoretical
// price for the given target underlying, remaining days and volatility.
// ok is false when the leg has no resolvable entry price.
func PLAtScenario(p Params, c models.OptionContract, targetPrice float64, daysToExpiration int, volatilityPercent, dividendYield float64) (pl float64, ok bool) {
	entry, ok := EntryPrice(c)
	if !ok {
		return 0, false
	}
	theo := TheoreticalPrice(p, c.Kind, c.Strike, targetPrice, daysToExpiration, volatilityPercent, dividendYield)
	return (theo - entry) * float64(c.AbsQuantity()) * c.PointValue() * c.Action.Sign(), true
}
