// Package models provides domain models for the options exit simulator.
package models

// Action represents the side of an option leg.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// Sign returns +1 for a bought leg and -1 for a sold leg.
func (a Action) Sign() float64 {
	if a == ActionSell {
		return -1
	}
	return 1
}

// OptionKind represents the type of an option contract.
type OptionKind string

const (
	KindCall OptionKind = "CALL"
	KindPut  OptionKind = "PUT"
)

// Direction represents the direction of an underlying position.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Sign returns +1 for a long position and -1 for a short position.
func (d Direction) Sign() float64 {
	if d == DirectionShort {
		return -1
	}
	return 1
}

// LiquidityLevel buckets a liquidity score.
type LiquidityLevel string

const (
	LiquidityHigh    LiquidityLevel = "HIGH"
	LiquidityMedium  LiquidityLevel = "MEDIUM"
	LiquidityLow     LiquidityLevel = "LOW"
	LiquidityVeryLow LiquidityLevel = "VERY_LOW"
)

// LiquidityAssessment scores a single contract's tradability.
// It is advisory only and never blocks a calculation.
type LiquidityAssessment struct {
	Symbol   string         `json:"symbol,omitempty"`
	Level    LiquidityLevel `json:"level"`
	Score    float64        `json:"score"`
	Warnings []string       `json:"warnings"`
}

// SimulationInput is the full input to one exit simulation. All fields are
// caller-supplied snapshots; the engine never mutates them.
type SimulationInput struct {
	TargetUnderlyingPrice  float64              `json:"target_underlying_price"`
	CurrentUnderlyingPrice float64              `json:"current_underlying_price"`
	DaysPassed             int                  `json:"days_passed"`
	DividendYield          float64              `json:"dividend_yield"`
	Contracts              []OptionContract     `json:"contracts"`
	Positions              []UnderlyingPosition `json:"positions"`
	Surface                *VolSurface          `json:"surface,omitempty"`
}

// LegDetail is the per-row breakdown of a scenario.
//
// DisplayValue is the delta-from-entry figure shown to the user;
// BookedValue is the cash-flow amount folded into the scenario total.
// For option legs the two coincide; for stock rows they can differ by the
// entry cost booked separately.
type LegDetail struct {
	Label        string  `json:"label"`
	DisplayValue float64 `json:"display_value"`
	BookedValue  float64 `json:"booked_value"`
	Description  string  `json:"description"`
	KCoefficient float64 `json:"k_coefficient,omitempty"`
	Excluded     bool    `json:"excluded,omitempty"`
}

// ScenarioResult is the outcome of one exit scenario.
type ScenarioResult struct {
	TotalPL float64     `json:"total_pl"`
	Legs    []LegDetail `json:"legs"`
}

// SimulationResult bundles the three exit scenarios plus liquidity advisories.
type SimulationResult struct {
	Exercise         ScenarioResult        `json:"exercise"`
	CloseOptionsOnly ScenarioResult        `json:"close_options_only"`
	CloseEverything  ScenarioResult        `json:"close_everything"`
	Liquidity        []LiquidityAssessment `json:"liquidity"`
}

// ProjectionPoint is one point of a P&L-vs-time series.
type ProjectionPoint struct {
	DayOffset int         `json:"day_offset"`
	TotalPL   float64     `json:"total_pl"`
	Legs      []LegDetail `json:"legs"`
}

// ProjectionSummary aggregates a projection series for display.
type ProjectionSummary struct {
	MaxPL   float64 `json:"max_pl"`
	MinPL   float64 `json:"min_pl"`
	MeanPL  float64 `json:"mean_pl"`
	FinalPL float64 `json:"final_pl"`
}
