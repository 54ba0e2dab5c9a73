// Package simulation computes multi-leg position exit P&L across scenarios.
package simulation

import (
	"fmt"
	"time"

	"options-simulator/internal/dates"
	"options-simulator/internal/liquidity"
	"options-simulator/internal/models"
	"options-simulator/internal/pricing"
	"options-simulator/internal/volatility"
)

// Calculator computes the three exit scenarios for a position snapshot.
// It is a pure function of its inputs: no I/O, no mutation of the input,
// safe for concurrent use from independent inputs.
type Calculator struct {
	params pricing.Params
	now    func() time.Time
}

// NewCalculator creates a calculator with the given pricing parameters.
func NewCalculator(params pricing.Params) *Calculator {
	return &Calculator{params: params, now: time.Now}
}

// NewCalculatorAt creates a calculator with a fixed clock. Simulations are
// anchored on "today"; pinning it keeps results reproducible in tests.
func NewCalculatorAt(params pricing.Params, now func() time.Time) *Calculator {
	return &Calculator{params: params, now: now}
}

// Simulate computes aggregate P&L for the position under the three exit
// strategies. Invisible legs and positions are excluded throughout. A leg
// with no resolvable entry price degrades to a zero-value annotated row
// rather than failing the simulation.
func (calc *Calculator) Simulate(in models.SimulationInput) models.SimulationResult {
	now := calc.now()
	contracts := calc.visibleContracts(in.Contracts)
	positions := visiblePositions(in.Positions)

	assessments := make([]models.LiquidityAssessment, 0, len(contracts))
	for _, c := range contracts {
		assessments = append(assessments, liquidity.Assess(c))
	}

	return models.SimulationResult{
		Exercise:         calc.exerciseScenario(in, contracts, positions),
		CloseOptionsOnly: calc.closeScenario(in, contracts, positions, now, false),
		CloseEverything:  calc.closeScenario(in, contracts, positions, now, true),
		Liquidity:        assessments,
	}
}

// exerciseScenario settles every option leg at the target price and
// liquidates stock. Stock bookkeeping follows the cash flows: entry cost is
// booked first, disposal proceeds at target last; the per-row display figure
// is the intuitive delta from entry.
func (calc *Calculator) exerciseScenario(in models.SimulationInput, contracts []models.OptionContract, positions []models.UnderlyingPosition) models.ScenarioResult {
	res := models.ScenarioResult{Legs: []models.LegDetail{}}
	target := in.TargetUnderlyingPrice

	// Entry cash flows for stock: cost out for longs, proceeds in for shorts.
	for _, pos := range positions {
		res.TotalPL -= pos.EntryPrice * float64(pos.Quantity) * pos.Direction.Sign()
	}

	for _, c := range contracts {
		pl, ok := pricing.ExpirationPayoff(c, target)
		if !ok {
			res.Legs = append(res.Legs, excludedLeg(c))
			continue
		}
		res.TotalPL += pl
		res.Legs = append(res.Legs, models.LegDetail{
			Label:        legLabel(c),
			DisplayValue: pl,
			BookedValue:  pl,
			Description:  settlementDescription(c, target),
		})
	}

	// Disposal at target: proceeds for longs, buy-to-cover for shorts.
	for _, pos := range positions {
		disposal := target * float64(pos.Quantity) * pos.Direction.Sign()
		res.TotalPL += disposal
		res.Legs = append(res.Legs, models.LegDetail{
			Label:        stockLabel(pos),
			DisplayValue: stockDelta(pos, target),
			BookedValue:  disposal,
			Description:  fmt.Sprintf("%s %d sold at %.2f (entry %.2f)", pos.Direction, pos.Quantity, target, pos.EntryPrice),
		})
	}

	return res
}

// closeScenario values option legs at their Black-Scholes theoretical price
// for the simulated date. Stock rows are marked to market at the target
// price in all cases; their P&L is folded into the total only when
// liquidateStock is set (the "close everything" strategy).
func (calc *Calculator) closeScenario(in models.SimulationInput, contracts []models.OptionContract, positions []models.UnderlyingPosition, now time.Time, liquidateStock bool) models.ScenarioResult {
	res := models.ScenarioResult{Legs: []models.LegDetail{}}

	dividendYield := calc.dividendYield(in)
	for _, c := range contracts {
		daysNow := dates.ContractDays(c, now, 0)
		daysSim := dates.ContractDays(c, now, in.DaysPassed)
		vol := volatility.ForContract(c, daysNow, daysSim, now, in.Surface)

		pl, ok := pricing.PLAtScenario(calc.params, c, in.TargetUnderlyingPrice, daysSim, vol, dividendYield)
		if !ok {
			res.Legs = append(res.Legs, excludedLeg(c))
			continue
		}
		res.TotalPL += pl

		detail := models.LegDetail{
			Label:        legLabel(c),
			DisplayValue: pl,
			BookedValue:  pl,
			Description:  fmt.Sprintf("closed at theoretical value, %dd remaining, vol %.1f%%", daysSim, vol),
		}
		if liquidateStock {
			detail.KCoefficient = kCoefficient(c, pl)
		}
		res.Legs = append(res.Legs, detail)
	}

	for _, pos := range positions {
		delta := stockDelta(pos, in.TargetUnderlyingPrice)
		detail := models.LegDetail{
			Label:        stockLabel(pos),
			DisplayValue: delta,
		}
		if liquidateStock {
			detail.BookedValue = delta
			detail.Description = fmt.Sprintf("%s %d sold at %.2f (entry %.2f)", pos.Direction, pos.Quantity, in.TargetUnderlyingPrice, pos.EntryPrice)
			res.TotalPL += delta
		} else {
			detail.Description = fmt.Sprintf("%s %d retained, marked to market at %.2f (entry %.2f)", pos.Direction, pos.Quantity, in.TargetUnderlyingPrice, pos.EntryPrice)
		}
		res.Legs = append(res.Legs, detail)
	}

	return res
}

// kCoefficient is the leg P&L per unit of premium at risk, used to rank
// legs by capital efficiency. Undefined (zero) when entry premium is zero.
func kCoefficient(c models.OptionContract, pl float64) float64 {
	entry, ok := pricing.EntryPrice(c)
	if !ok || entry <= 0 {
		return 0
	}
	return pl / (entry * c.PointValue())
}

// stockDelta is the displayed per-position figure: difference from entry at
// the target price, mirrored for shorts.
func stockDelta(pos models.UnderlyingPosition, target float64) float64 {
	return (target - pos.EntryPrice) * float64(pos.Quantity) * pos.Direction.Sign()
}

func excludedLeg(c models.OptionContract) models.LegDetail {
	return models.LegDetail{
		Label:       legLabel(c),
		Description: "no usable entry price; excluded from totals",
		Excluded:    true,
	}
}

func settlementDescription(c models.OptionContract, settle float64) string {
	entry, _ := pricing.EntryPrice(c)
	if pricing.IntrinsicValue(c.Kind, c.Strike, settle) > 0 {
		verb := "buy"
		if (c.Kind == models.KindCall) == (c.Action == models.ActionSell) {
			verb = "sell"
		}
		shares := float64(c.AbsQuantity()) * c.PointValue()
		return fmt.Sprintf("ITM: %s %.0f shares at %.2f (market %.2f)", verb, shares, c.Strike, settle)
	}
	outcome := "lost"
	if c.Action == models.ActionSell {
		outcome = "kept"
	}
	return fmt.Sprintf("OTM: expires worthless, premium %.2f %s", entry, outcome)
}

func legLabel(c models.OptionContract) string {
	if c.Symbol != "" {
		return c.Symbol
	}
	exp := "no-expiry"
	if c.Expiration != nil {
		exp = c.Expiration.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("%s %s %.2f %s", c.Action, c.Kind, c.Strike, exp)
}

func stockLabel(pos models.UnderlyingPosition) string {
	if pos.Ticker != "" {
		return pos.Ticker
	}
	return fmt.Sprintf("%s STOCK", pos.Direction)
}

// visibleContracts filters to visible legs and stamps the configured
// contract multiplier onto legs that carry none. The caller's slice is
// never touched.
func (calc *Calculator) visibleContracts(contracts []models.OptionContract) []models.OptionContract {
	out := make([]models.OptionContract, 0, len(contracts))
	for _, c := range contracts {
		if !c.Visible {
			continue
		}
		if c.Multiplier <= 0 && calc.params.ContractMultiplier > 0 {
			c.Multiplier = calc.params.ContractMultiplier
		}
		out = append(out, c)
	}
	return out
}

// dividendYield resolves the continuous yield for a run: the input's own
// value wins, the configured default covers inputs that omit it.
func (calc *Calculator) dividendYield(in models.SimulationInput) float64 {
	if in.DividendYield != 0 {
		return in.DividendYield
	}
	return calc.params.DividendYield
}

func visiblePositions(positions []models.UnderlyingPosition) []models.UnderlyingPosition {
	out := make([]models.UnderlyingPosition, 0, len(positions))
	for _, p := range positions {
		if p.Visible {
			out = append(out, p)
		}
	}
	return out
}
