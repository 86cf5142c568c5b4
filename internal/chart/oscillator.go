package chart

import (
	"fmt"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

const (
	Overbought = 70.0
	Oversold   = 30.0

	ColorRSI = "purple"
)

// BuildRSIChart draws the RSI line with the 70/30 reference lines spanning
// the whole series. It returns nil when RSI is never defined, and
// ErrEmptySeries when there are no points to span.
func BuildRSIChart(series *model.PriceSeries, ind *model.IndicatorSet, symbol string) (*LineChart, error) {
	if series.Len() == 0 {
		return nil, calculator.ErrEmptySeries
	}
	if ind == nil {
		return nil, nil
	}
	days := daysOf(series)
	pts := pointsOf(days, ind.RSI14)
	if len(pts) == 0 {
		return nil, nil
	}
	first, last := days[0], days[len(days)-1]
	yRange := [2]float64{0, 100}
	return &LineChart{
		Kind:   KindLine,
		Series: []LineSeries{{Name: "RSI", Color: ColorRSI, Width: 2, Points: pts}},
		References: []ReferenceLine{
			{Value: Overbought, From: first, To: last, Color: ColorDown, Width: 1, Dash: "dash", Opacity: 0.5},
			{Value: Oversold, From: first, To: last, Color: ColorUp, Width: 1, Dash: "dash", Opacity: 0.5},
		},
		Layout: Layout{
			Title:      fmt.Sprintf("%s RSI (Relative Strength Index)", symbol),
			XAxisTitle: "Date",
			YAxisTitle: "RSI Value",
			Template:   plotTemplate,
			Height:     300,
			YRange:     &yRange,
		},
	}, nil
}
