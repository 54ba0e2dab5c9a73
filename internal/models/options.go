package models

import (
	"sort"
	"time"
)

// DefaultMultiplier is the contract size used when a leg does not carry its
// own point value (100 shares per equity option contract).
const DefaultMultiplier = 100.0

// OptionContract represents one leg of a multi-leg position. It is treated
// as immutable for the duration of a simulation call.
type OptionContract struct {
	Symbol     string     `json:"symbol,omitempty"`
	Action     Action     `json:"action"`
	Kind       OptionKind `json:"kind"`
	Strike     float64    `json:"strike"`
	Expiration *time.Time `json:"expiration,omitempty"`

	// Quantity is the number of contracts. Direction is taken from Action;
	// a negative sign here is ignored so the two encodings cannot disagree.
	Quantity int `json:"quantity"`

	// Multiplier is the point value per contract. Zero means DefaultMultiplier.
	Multiplier float64 `json:"multiplier,omitempty"`

	Bid         float64 `json:"bid"`
	Ask         float64 `json:"ask"`
	MarkPremium float64 `json:"mark_premium"`

	// CustomPremiumOverride, when set, supersedes bid/ask/premium entirely
	// for both entry-price and theoretical-price computations.
	CustomPremiumOverride *float64 `json:"custom_premium_override,omitempty"`

	OpenInterest int64 `json:"open_interest"`
	Volume       int64 `json:"volume"`

	// ImpliedVolatility is quoted either as a fraction (<1) or a
	// percentage (>=1). Consumers normalize via volatility.Normalize.
	ImpliedVolatility *float64 `json:"implied_volatility,omitempty"`

	Visible bool `json:"visible"`
}

// AbsQuantity returns the contract count with any redundant sign stripped.
func (c OptionContract) AbsQuantity() int {
	if c.Quantity < 0 {
		return -c.Quantity
	}
	return c.Quantity
}

// PointValue returns the contract multiplier, defaulting when unset.
func (c OptionContract) PointValue() float64 {
	if c.Multiplier > 0 {
		return c.Multiplier
	}
	return DefaultMultiplier
}

// UnderlyingPosition represents a stock (or other underlying) holding.
type UnderlyingPosition struct {
	Ticker     string    `json:"ticker"`
	Direction  Direction `json:"direction"`
	Quantity   int       `json:"quantity"`
	EntryPrice float64   `json:"entry_price"`
	Visible    bool      `json:"visible"`
}

// VolSurfacePoint is one knot of a sparse implied-volatility grid.
// ImpliedVol is on percentage scale (23.5 means 23.5%).
type VolSurfacePoint struct {
	Strike     float64 `json:"strike"`
	ImpliedVol float64 `json:"implied_vol"`
}

// VolSurfaceTenor is the strike smile at one expiration.
type VolSurfaceTenor struct {
	Expiration time.Time         `json:"expiration"`
	Points     []VolSurfacePoint `json:"points"`
}

// VolSurface is a sparse implied-volatility grid keyed by
// (expiration, strike). It is built externally and read-only to the engine.
type VolSurface struct {
	Underlying string            `json:"underlying,omitempty"`
	Tenors     []VolSurfaceTenor `json:"tenors"`
}

// SortedTenors returns the surface tenors ordered by expiration, each with
// its strikes ordered ascending. The receiver is not modified.
func (s *VolSurface) SortedTenors() []VolSurfaceTenor {
	tenors := make([]VolSurfaceTenor, len(s.Tenors))
	for i, t := range s.Tenors {
		points := make([]VolSurfacePoint, len(t.Points))
		copy(points, t.Points)
		sort.Slice(points, func(a, b int) bool { return points[a].Strike < points[b].Strike })
		tenors[i] = VolSurfaceTenor{Expiration: t.Expiration, Points: points}
	}
	sort.Slice(tenors, func(a, b int) bool { return tenors[a].Expiration.Before(tenors[b].Expiration) })
	return tenors
}
