package simulation

import (
	"math"
	"testing"
	"time"

	"options-simulator/internal/models"
	"options-simulator/internal/pricing"
)

var testNow = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func testCalculator() *Calculator {
	return NewCalculatorAt(pricing.Params{RiskFreeRate: 0.04}, func() time.Time { return testNow })
}

func expiryDays(days int) *time.Time {
	e := testNow.AddDate(0, 0, days)
	return &e
}

func buyCall(strike float64, ask float64, days int) models.OptionContract {
	return models.OptionContract{
		Action:       models.ActionBuy,
		Kind:         models.KindCall,
		Strike:       strike,
		Ask:          ask,
		Quantity:     1,
		Expiration:   expiryDays(days),
		OpenInterest: 5000,
		Volume:       500,
		Visible:      true,
	}
}

func longStock(qty int, entry float64) models.UnderlyingPosition {
	return models.UnderlyingPosition{
		Ticker:     "AAPL",
		Direction:  models.DirectionLong,
		Quantity:   qty,
		EntryPrice: entry,
		Visible:    true,
	}
}

func TestSimulateEmptyInput(t *testing.T) {
	res := testCalculator().Simulate(models.SimulationInput{TargetUnderlyingPrice: 100})

	for name, sc := range map[string]models.ScenarioResult{
		"exercise":         res.Exercise,
		"closeOptionsOnly": res.CloseOptionsOnly,
		"closeEverything":  res.CloseEverything,
	} {
		if sc.TotalPL != 0 {
			t.Errorf("%s total = %v, want 0", name, sc.TotalPL)
		}
		if sc.Legs == nil || len(sc.Legs) != 0 {
			t.Errorf("%s legs = %v, want empty list", name, sc.Legs)
		}
	}
	if len(res.Liquidity) != 0 {
		t.Errorf("liquidity = %v, want empty", res.Liquidity)
	}
}

func TestSimulateBuyCallWorkedExample(t *testing.T) {
	// Buy Call strike 255, entry ask 6.00, 20 days out, target 260,
	// daysPassed 0, vol 30%, q=0, r=4%.
	iv := 30.0
	c := buyCall(255, 6.00, 20)
	c.ImpliedVolatility = &iv

	in := models.SimulationInput{
		TargetUnderlyingPrice:  260,
		CurrentUnderlyingPrice: 254,
		Contracts:              []models.OptionContract{c},
	}
	res := testCalculator().Simulate(in)

	theo := pricing.TheoreticalPrice(pricing.Params{RiskFreeRate: 0.04}, models.KindCall, 255, 260, 20, 30, 0)
	if theo <= 5.00 {
		t.Fatalf("theoretical %v should exceed intrinsic 5.00", theo)
	}

	wantClose := (theo - 6.00) * 100
	if math.Abs(res.CloseEverything.TotalPL-wantClose) > 1e-9 {
		t.Errorf("closeEverything total = %v, want %v", res.CloseEverything.TotalPL, wantClose)
	}
	if math.Abs(res.CloseOptionsOnly.TotalPL-wantClose) > 1e-9 {
		t.Errorf("closeOptionsOnly total = %v, want %v", res.CloseOptionsOnly.TotalPL, wantClose)
	}

	// Settlement: (5.00 - 6.00) * 100.
	if math.Abs(res.Exercise.TotalPL-(-100)) > 1e-9 {
		t.Errorf("exercise total = %v, want -100", res.Exercise.TotalPL)
	}
}

func TestSimulatePutSettledAtStrike(t *testing.T) {
	put := models.OptionContract{
		Action:     models.ActionBuy,
		Kind:       models.KindPut,
		Strike:     220,
		Ask:        6.00,
		Quantity:   1,
		Expiration: expiryDays(15),
		Visible:    true,
	}

	in := models.SimulationInput{
		TargetUnderlyingPrice: 220,
		DaysPassed:            15,
		Contracts:             []models.OptionContract{put},
	}
	res := testCalculator().Simulate(in)

	if res.Exercise.TotalPL != -600 {
		t.Errorf("exercise total = %v, want -600", res.Exercise.TotalPL)
	}
	// With zero days remaining the close scenarios settle too.
	if res.CloseEverything.TotalPL != -600 {
		t.Errorf("closeEverything total = %v, want -600", res.CloseEverything.TotalPL)
	}
}

func TestSimulateStockOnlyScenarioConsistency(t *testing.T) {
	in := models.SimulationInput{
		TargetUnderlyingPrice: 110,
		Positions:             []models.UnderlyingPosition{longStock(100, 90)},
	}
	res := testCalculator().Simulate(in)

	want := (110.0 - 90.0) * 100
	if res.Exercise.TotalPL != want || res.CloseEverything.TotalPL != want {
		t.Errorf("liquidating scenarios = %v / %v, want %v", res.Exercise.TotalPL, res.CloseEverything.TotalPL, want)
	}

	// Stock is retained in closeOptionsOnly: displayed, not folded in.
	if res.CloseOptionsOnly.TotalPL != 0 {
		t.Errorf("closeOptionsOnly total = %v, want 0 (stock retained)", res.CloseOptionsOnly.TotalPL)
	}
	if len(res.CloseOptionsOnly.Legs) != 1 || res.CloseOptionsOnly.Legs[0].DisplayValue != want {
		t.Errorf("closeOptionsOnly leg = %+v, want display %v", res.CloseOptionsOnly.Legs, want)
	}
}

func TestSimulateShortStock(t *testing.T) {
	in := models.SimulationInput{
		TargetUnderlyingPrice: 80,
		Positions: []models.UnderlyingPosition{{
			Ticker: "TSLA", Direction: models.DirectionShort,
			Quantity: 50, EntryPrice: 100, Visible: true,
		}},
	}
	res := testCalculator().Simulate(in)

	want := (100.0 - 80.0) * 50
	if res.Exercise.TotalPL != want {
		t.Errorf("short stock exercise total = %v, want %v", res.Exercise.TotalPL, want)
	}
}

func TestSimulateStockBookkeeping(t *testing.T) {
	// The booked amount is the full disposal cash flow; the display figure
	// is the delta from entry. They differ by the entry cost booked into
	// the total separately.
	in := models.SimulationInput{
		TargetUnderlyingPrice: 110,
		Positions:             []models.UnderlyingPosition{longStock(10, 90)},
	}
	res := testCalculator().Simulate(in)

	leg := res.Exercise.Legs[0]
	if leg.BookedValue != 110*10 {
		t.Errorf("booked = %v, want full disposal 1100", leg.BookedValue)
	}
	if leg.DisplayValue != (110-90)*10 {
		t.Errorf("display = %v, want delta 200", leg.DisplayValue)
	}
	if res.Exercise.TotalPL != leg.DisplayValue {
		t.Errorf("total %v must equal display delta %v", res.Exercise.TotalPL, leg.DisplayValue)
	}
}

func TestSimulateVisibilityExclusion(t *testing.T) {
	iv := 30.0
	visible := buyCall(255, 6.00, 20)
	visible.ImpliedVolatility = &iv
	hidden := buyCall(200, 10.00, 20)
	hidden.ImpliedVolatility = &iv
	hidden.Visible = false

	in := models.SimulationInput{
		TargetUnderlyingPrice: 260,
		Contracts:             []models.OptionContract{visible, hidden},
		Positions: []models.UnderlyingPosition{
			longStock(100, 90),
			{Ticker: "HID", Direction: models.DirectionLong, Quantity: 100, EntryPrice: 50, Visible: false},
		},
	}
	res := testCalculator().Simulate(in)

	baseline := testCalculator().Simulate(models.SimulationInput{
		TargetUnderlyingPrice: 260,
		Contracts:             []models.OptionContract{visible},
		Positions:             []models.UnderlyingPosition{longStock(100, 90)},
	})

	if res.CloseEverything.TotalPL != baseline.CloseEverything.TotalPL {
		t.Errorf("hidden legs leaked into total: %v vs %v", res.CloseEverything.TotalPL, baseline.CloseEverything.TotalPL)
	}
	if len(res.Liquidity) != 1 {
		t.Errorf("hidden leg leaked into liquidity: %v", res.Liquidity)
	}
	if len(res.Exercise.Legs) != 2 { // one option + one stock
		t.Errorf("exercise rows = %d, want 2", len(res.Exercise.Legs))
	}
}

func TestSimulateMissingEntryPriceDegrades(t *testing.T) {
	iv := 30.0
	good := buyCall(255, 6.00, 20)
	good.ImpliedVolatility = &iv
	bad := buyCall(250, 0, 20) // no ask, no premium
	bad.ImpliedVolatility = &iv

	in := models.SimulationInput{
		TargetUnderlyingPrice: 260,
		Contracts:             []models.OptionContract{good, bad},
	}
	res := testCalculator().Simulate(in)

	baseline := testCalculator().Simulate(models.SimulationInput{
		TargetUnderlyingPrice: 260,
		Contracts:             []models.OptionContract{good},
	})

	if res.CloseEverything.TotalPL != baseline.CloseEverything.TotalPL {
		t.Errorf("excluded leg affected total: %v vs %v", res.CloseEverything.TotalPL, baseline.CloseEverything.TotalPL)
	}
	if len(res.CloseEverything.Legs) != 2 {
		t.Fatalf("rows = %d, want 2 (degraded leg still reported)", len(res.CloseEverything.Legs))
	}
	degraded := res.CloseEverything.Legs[1]
	if !degraded.Excluded || degraded.DisplayValue != 0 || degraded.Description == "" {
		t.Errorf("degraded row = %+v, want excluded zero-value row with description", degraded)
	}
}

func TestSimulateMultiExpirationDayCounts(t *testing.T) {
	// Two legs with different expirations must each be priced on their own
	// day count: after 15 days the near leg is settled while the far leg
	// still carries time value.
	iv := 40.0
	near := buyCall(100, 2.00, 10)
	near.ImpliedVolatility = &iv
	far := buyCall(100, 5.00, 60)
	far.ImpliedVolatility = &iv

	in := models.SimulationInput{
		TargetUnderlyingPrice: 105,
		DaysPassed:            15,
		Contracts:             []models.OptionContract{near, far},
	}
	res := testCalculator().Simulate(in)

	// Near leg: settled at intrinsic 5.00, entry 2.00 -> +300.
	nearPL := res.CloseEverything.Legs[0].DisplayValue
	if math.Abs(nearPL-300) > 1e-9 {
		t.Errorf("near leg = %v, want settlement 300", nearPL)
	}

	// Far leg: 45 days remain, theoretical with time value above intrinsic.
	theo := pricing.TheoreticalPrice(pricing.Params{RiskFreeRate: 0.04}, models.KindCall, 100, 105, 45, 40, 0)
	farPL := res.CloseEverything.Legs[1].DisplayValue
	want := (theo - 5.00) * 100
	if math.Abs(farPL-want) > 1e-9 {
		t.Errorf("far leg = %v, want %v", farPL, want)
	}
	if theo <= 5.00 {
		t.Errorf("far leg lost its time value: theo %v", theo)
	}
}

func TestSimulateKCoefficient(t *testing.T) {
	iv := 30.0
	c := buyCall(255, 6.00, 20)
	c.ImpliedVolatility = &iv

	in := models.SimulationInput{
		TargetUnderlyingPrice: 260,
		Contracts:             []models.OptionContract{c},
	}
	res := testCalculator().Simulate(in)

	leg := res.CloseEverything.Legs[0]
	want := leg.DisplayValue / (6.00 * 100)
	if math.Abs(leg.KCoefficient-want) > 1e-9 {
		t.Errorf("k = %v, want %v", leg.KCoefficient, want)
	}

	// Only the liquidating scenario ranks legs.
	if res.CloseOptionsOnly.Legs[0].KCoefficient != 0 {
		t.Errorf("closeOptionsOnly should not carry k coefficients")
	}
}

func TestSimulateCustomPremiumOverride(t *testing.T) {
	iv := 30.0
	c := buyCall(255, 6.00, 20)
	c.ImpliedVolatility = &iv
	override := 3.50
	c.CustomPremiumOverride = &override

	in := models.SimulationInput{
		TargetUnderlyingPrice: 260,
		DaysPassed:            20,
		Contracts:             []models.OptionContract{c},
	}
	res := testCalculator().Simulate(in)

	// Settled at intrinsic 5.00 against the override entry, not the ask.
	want := (5.00 - 3.50) * 100
	if math.Abs(res.Exercise.TotalPL-want) > 1e-9 {
		t.Errorf("exercise total = %v, want %v", res.Exercise.TotalPL, want)
	}
}

func TestSimulateInputNotMutated(t *testing.T) {
	iv := 30.0
	c := buyCall(255, 6.00, 20)
	c.ImpliedVolatility = &iv
	contracts := []models.OptionContract{c}
	in := models.SimulationInput{
		TargetUnderlyingPrice: 260,
		Contracts:             contracts,
	}

	_ = testCalculator().Simulate(in)

	if contracts[0].Strike != 255 || contracts[0].Ask != 6.00 || !contracts[0].Visible {
		t.Errorf("input contract mutated: %+v", contracts[0])
	}
}

func TestSimulateConcurrentCalls(t *testing.T) {
	iv := 30.0
	c := buyCall(255, 6.00, 20)
	c.ImpliedVolatility = &iv
	calc := testCalculator()

	in := models.SimulationInput{
		TargetUnderlyingPrice: 260,
		Contracts:             []models.OptionContract{c},
	}
	want := calc.Simulate(in).CloseEverything.TotalPL

	done := make(chan float64, 16)
	for i := 0; i < 16; i++ {
		go func() {
			done <- calc.Simulate(in).CloseEverything.TotalPL
		}()
	}
	for i := 0; i < 16; i++ {
		if got := <-done; got != want {
			t.Errorf("concurrent result = %v, want %v", got, want)
		}
	}
}
