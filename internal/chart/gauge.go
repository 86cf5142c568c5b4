package chart

import (
	"math"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// RangeBands splits the gauge into low, mid and high thirds.
var RangeBands = []Band{
	{From: 0, To: 33, Color: "red", Label: "low"},
	{From: 33, To: 66, Color: "yellow", Label: "mid"},
	{From: 66, To: 100, Color: "green", Label: "high"},
}

// BuildRangeGauge shows where the last close sits in the series' range.
func BuildRangeGauge(series *model.PriceSeries, symbol string) (*GaugeChart, error) {
	stats, err := calculator.ComputeRangeStats(series)
	if err != nil {
		return nil, err
	}
	return GaugeFromStats(stats, symbol), nil
}

// GaugeFromStats builds the gauge from precomputed range statistics.
func GaugeFromStats(stats model.RangeStats, symbol string) *GaugeChart {
	value := clamp(stats.PositionPct, 0, 100)
	title := "Position in 52-Week Range"
	if symbol != "" {
		title = symbol + " " + title
	}
	return &GaugeChart{
		Kind:     KindGauge,
		Value:    value,
		RawValue: stats.PositionPct,
		Min:      0,
		Max:      100,
		BarColor: "darkblue",
		Bands:    append([]Band(nil), RangeBands...),
		Threshold: Threshold{
			Value:     value,
			Color:     "black",
			Width:     4,
			Thickness: 0.75,
		},
		Layout: Layout{Title: title, Template: plotTemplate},
	}
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return lo
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
