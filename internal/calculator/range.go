package calculator

import (
	"math"

	"StockLens/internal/model"
)

// DegeneratePosition is reported when the high and low of the range coincide.
const DegeneratePosition = 50.0

// ComputeRangeStats scans the whole series for its low and high and places
// the last close inside that range.
func ComputeRangeStats(series *model.PriceSeries) (model.RangeStats, error) {
	last, ok := series.Last()
	if !ok {
		return model.RangeStats{}, ErrEmptySeries
	}
	high := math.Inf(-1)
	low := math.Inf(1)
	for _, p := range series.Points {
		if p.High > high {
			high = p.High
		}
		if p.Low < low {
			low = p.Low
		}
	}
	stats := model.RangeStats{
		CurrentPrice: last.Close,
		RangeLow:     low,
		RangeHigh:    high,
	}
	stats.PositionPct, stats.Degenerate = PositionPct(last.Close, high, low)
	return stats, nil
}

// PositionPct returns (current-low)/(high-low)*100, unclamped.
// A zero-width range yields DegeneratePosition and degenerate=true.
func PositionPct(current, high, low float64) (pct float64, degenerate bool) {
	if high == low {
		return DegeneratePosition, true
	}
	return (current - low) / (high - low) * 100, false
}
