package simulation

import (
	"options-simulator/internal/dates"
	"options-simulator/internal/models"
	"options-simulator/internal/pricing"
	"options-simulator/internal/volatility"
)

// LegGreeks pairs one option leg with its sensitivities. Values are
// position-oriented: a sold leg carries the negated per-share greeks.
type LegGreeks struct {
	Label         string         `json:"label"`
	DaysRemaining int            `json:"days_remaining"`
	Volatility    float64        `json:"volatility"`
	Greeks        pricing.Greeks `json:"greeks"`
}

// LegGreeks computes greeks for each visible option leg at the input's
// current underlying price (falling back to the target when no current
// price is supplied), as of the simulated date.
func (calc *Calculator) LegGreeks(in models.SimulationInput) []LegGreeks {
	now := calc.now()
	spot := in.CurrentUnderlyingPrice
	if spot <= 0 {
		spot = in.TargetUnderlyingPrice
	}

	dividendYield := calc.dividendYield(in)
	contracts := calc.visibleContracts(in.Contracts)
	out := make([]LegGreeks, 0, len(contracts))
	for _, c := range contracts {
		daysNow := dates.ContractDays(c, now, 0)
		daysSim := dates.ContractDays(c, now, in.DaysPassed)
		vol := volatility.ForContract(c, daysNow, daysSim, now, in.Surface)

		g := pricing.ComputeGreeks(calc.params, c.Kind, c.Strike, spot, daysSim, vol, dividendYield)
		sign := c.Action.Sign() * float64(c.AbsQuantity())
		g.Delta *= sign
		g.Gamma *= sign
		g.Theta *= sign
		g.Vega *= sign
		g.Rho *= sign

		out = append(out, LegGreeks{
			Label:         legLabel(c),
			DaysRemaining: daysSim,
			Volatility:    vol,
			Greeks:        g,
		})
	}
	return out
}
