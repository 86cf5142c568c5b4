package chart

import (
	"fmt"

	"StockLens/internal/model"
)

const (
	ColorDown = "red"
	ColorUp   = "green"
)

// BarColor picks the bar color from the day's own direction only.
func BarColor(p model.PricePoint) string {
	if p.Down() {
		return ColorDown
	}
	return ColorUp
}

// BuildVolumeChart draws one bar per point. An empty series has no chart.
func BuildVolumeChart(series *model.PriceSeries, symbol string) *BarChart {
	if series.Len() == 0 {
		return nil
	}
	bars := make([]Bar, series.Len())
	for i, p := range series.Points {
		bars[i] = Bar{Date: p.Day(), Value: float64(p.Volume), Color: BarColor(p)}
	}
	return &BarChart{
		Kind: KindBar,
		Name: "Volume",
		Bars: bars,
		Layout: Layout{
			Title:      fmt.Sprintf("%s Trading Volume", symbol),
			XAxisTitle: "Date",
			YAxisTitle: "Volume",
			Template:   plotTemplate,
			Height:     300,
		},
	}
}
