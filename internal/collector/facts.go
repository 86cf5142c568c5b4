package collector

import (
	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// tradingDaysPerYear bounds the 52-week lookback.
const tradingDaysPerYear = 252

// FactsFromSeries derives the latest session and the 52-week extremes,
// each with its date, from daily history.
func FactsFromSeries(series *model.PriceSeries) (*model.StockFacts, error) {
	last, ok := series.Last()
	if !ok {
		return nil, calculator.ErrEmptySeries
	}
	start := series.Len() - tradingDaysPerYear
	if start < 0 {
		start = 0
	}
	hi, lo := series.Points[start], series.Points[start]
	for _, p := range series.Points[start:] {
		if p.High > hi.High {
			hi = p
		}
		if p.Low < lo.Low {
			lo = p
		}
	}

	change := 0.0
	if last.Open > 0 {
		change = (last.Close - last.Open) / last.Open * 100
	}
	return &model.StockFacts{
		Symbol:      series.Symbol,
		CompanyName: "N/A",
		LatestTrading: model.TradingSession{
			Date:      last.Day(),
			Price:     last.Close,
			Volume:    last.Volume,
			ChangePct: round2(change),
		},
		High52w: model.DatedPrice{Price: hi.High, Date: hi.Day()},
		Low52w:  model.DatedPrice{Price: lo.Low, Date: lo.Day()},
	}, nil
}
