package chart

import (
	"fmt"

	"StockLens/internal/model"
)

const (
	ColorMA20 = "orange"
	ColorMA50 = "blue"

	plotTemplate = "plotly_white"
)

// BuildPriceChart draws one candle per point and overlays the 20- and
// 50-day averages where they are defined. An empty series has no chart.
func BuildPriceChart(series *model.PriceSeries, ind *model.IndicatorSet, symbol string) *CandlestickChart {
	if series.Len() == 0 {
		return nil
	}
	days := daysOf(series)
	candles := make([]Candle, len(days))
	for i, p := range series.Points {
		candles[i] = Candle{Date: days[i], Open: p.Open, High: p.High, Low: p.Low, Close: p.Close}
	}

	c := &CandlestickChart{
		Kind:    KindCandlestick,
		Name:    "Price",
		Candles: candles,
		Layout: Layout{
			Title:          fmt.Sprintf("%s Stock Price", symbol),
			XAxisTitle:     "Date",
			YAxisTitle:     "Price (USD)",
			Template:       plotTemplate,
			Height:         500,
			RangeSliderOff: true,
		},
	}
	if ind == nil {
		return c
	}
	if pts := pointsOf(days, ind.MA20); len(pts) > 0 {
		c.Overlays = append(c.Overlays, LineSeries{Name: "20-day MA", Color: ColorMA20, Width: 2, Points: pts})
	}
	if pts := pointsOf(days, ind.MA50); len(pts) > 0 {
		c.Overlays = append(c.Overlays, LineSeries{Name: "50-day MA", Color: ColorMA50, Width: 2, Points: pts})
	}
	return c
}
