package simulation

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"options-simulator/internal/models"
)

// Properties over whole simulations: pure stock positions price identically
// in all three scenarios, and toggling one leg invisible removes exactly
// that leg's contribution.

func positionGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.UnderlyingPosition{}), map[string]gopter.Gen{
		"Ticker":     gen.AlphaUpperChar().Map(func(r rune) string { return string(r) }),
		"Quantity":   gen.IntRange(1, 1000),
		"EntryPrice": gen.Float64Range(1, 500),
	}).Map(func(p models.UnderlyingPosition) models.UnderlyingPosition {
		p.Direction = models.DirectionLong
		if p.Quantity%2 == 0 {
			p.Direction = models.DirectionShort
		}
		p.Visible = true
		return p
	})
}

func contractGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.OptionContract{}), map[string]gopter.Gen{
		"Strike":       gen.Float64Range(50, 500),
		"Quantity":     gen.IntRange(1, 10),
		"Ask":          gen.Float64Range(0.5, 50),
		"Bid":          gen.Float64Range(0.5, 50),
		"OpenInterest": gen.Int64Range(0, 10000),
		"Volume":       gen.Int64Range(0, 1000),
	}).Map(func(c models.OptionContract) models.OptionContract {
		c.Action = models.ActionBuy
		if c.Quantity%2 == 0 {
			c.Action = models.ActionSell
		}
		c.Kind = models.KindCall
		if int(c.Strike)%2 == 0 {
			c.Kind = models.KindPut
		}
		iv := 25.0
		c.ImpliedVolatility = &iv
		e := testNow.AddDate(0, 0, 10+int(c.Strike)%60)
		c.Expiration = &e
		c.Visible = true
		return c
	})
}

func TestProperty_StockOnlyScenarioConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("all scenarios agree with zero option legs", prop.ForAll(
		func(positions []models.UnderlyingPosition, target float64) bool {
			in := models.SimulationInput{
				TargetUnderlyingPrice: target,
				Positions:             positions,
			}
			res := testCalculator().Simulate(in)
			// CloseOptionsOnly retains stock; the two liquidating scenarios
			// must agree exactly, and its displayed rows must match theirs.
			if math.Abs(res.Exercise.TotalPL-res.CloseEverything.TotalPL) > 1e-6 {
				return false
			}
			for i, leg := range res.CloseOptionsOnly.Legs {
				if math.Abs(leg.DisplayValue-res.Exercise.Legs[i].DisplayValue) > 1e-6 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(3, positionGen()),
		gen.Float64Range(1, 500),
	))

	properties.TestingRun(t)
}

func TestProperty_VisibilityExclusion(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("hiding one leg removes only that leg", prop.ForAll(
		func(contracts []models.OptionContract, target float64, hideIdx int) bool {
			hideIdx = hideIdx % len(contracts)

			full := testCalculator().Simulate(models.SimulationInput{
				TargetUnderlyingPrice: target,
				Contracts:             contracts,
			})

			hidden := make([]models.OptionContract, len(contracts))
			copy(hidden, contracts)
			hidden[hideIdx].Visible = false
			partial := testCalculator().Simulate(models.SimulationInput{
				TargetUnderlyingPrice: target,
				Contracts:             hidden,
			})

			hiddenPL := full.CloseEverything.Legs[hideIdx].DisplayValue
			if math.Abs((full.CloseEverything.TotalPL-hiddenPL)-partial.CloseEverything.TotalPL) > 1e-6 {
				return false
			}
			return len(partial.Liquidity) == len(contracts)-1 &&
				len(partial.CloseEverything.Legs) == len(contracts)-1
		},
		gen.SliceOfN(4, contractGen()),
		gen.Float64Range(1, 500),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}
