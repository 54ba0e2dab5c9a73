package simulation

import (
	"github.com/montanaflynn/stats"

	"options-simulator/internal/dates"
	"options-simulator/internal/models"
)

// Projector sweeps a day-count range through the calculator to produce a
// P&L-vs-time series for charting. Each point is computed independently
// from the same input snapshot; there is no shared state between offsets.
type Projector struct {
	calc *Calculator
}

// NewProjector creates a projector over the given calculator.
func NewProjector(calc *Calculator) *Projector {
	return &Projector{calc: calc}
}

// Project re-runs the close-everything scenario once per requested day
// offset, holding the target price fixed. A leg past its own expiration at
// some offset is priced at settlement from then on, so its line goes flat
// rather than pricing past zero time.
func (p *Projector) Project(in models.SimulationInput, dayOffsets []int) []models.ProjectionPoint {
	points := make([]models.ProjectionPoint, 0, len(dayOffsets))
	for _, offset := range dayOffsets {
		shifted := in
		shifted.DaysPassed = offset
		res := p.calc.Simulate(shifted)
		points = append(points, models.ProjectionPoint{
			DayOffset: offset,
			TotalPL:   res.CloseEverything.TotalPL,
			Legs:      res.CloseEverything.Legs,
		})
	}
	return points
}

// HorizonOffsets returns the offsets 0, step, 2*step, ... capped at the
// longest days-to-expiration across the input's visible contracts, always
// including the final horizon day. A step below 1 is treated as 1.
func (p *Projector) HorizonOffsets(in models.SimulationInput, step int) []int {
	if step < 1 {
		step = 1
	}
	horizon := dates.MaxHorizonDays(p.calc.visibleContracts(in.Contracts), p.calc.now())
	offsets := make([]int, 0, horizon/step+2)
	for d := 0; d <= horizon; d += step {
		offsets = append(offsets, d)
	}
	if len(offsets) == 0 || offsets[len(offsets)-1] != horizon {
		offsets = append(offsets, horizon)
	}
	return offsets
}

// Summarize reduces a projection series for display: the best, worst, mean
// and final total P&L over the swept range.
func Summarize(points []models.ProjectionPoint) (models.ProjectionSummary, error) {
	if len(points) == 0 {
		return models.ProjectionSummary{}, nil
	}
	data := make(stats.Float64Data, len(points))
	for i, pt := range points {
		data[i] = pt.TotalPL
	}

	max, err := stats.Max(data)
	if err != nil {
		return models.ProjectionSummary{}, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return models.ProjectionSummary{}, err
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return models.ProjectionSummary{}, err
	}

	return models.ProjectionSummary{
		MaxPL:   max,
		MinPL:   min,
		MeanPL:  mean,
		FinalPL: points[len(points)-1].TotalPL,
	}, nil
}
