package calculator

import (
	"time"

	"StockLens/internal/model"
)

// ComputeIndicators derives MA20, MA50 and RSI14 for every point of series.
// It does not modify series and keeps no state between calls.
func ComputeIndicators(series *model.PriceSeries) *model.IndicatorSet {
	closes := series.Closes()
	dates := make([]time.Time, len(closes))
	for i := range dates {
		dates[i] = series.Points[i].Date
	}
	return &model.IndicatorSet{
		Dates: dates,
		MA20:  SMASeries(closes, ShortMAPeriod),
		MA50:  SMASeries(closes, LongMAPeriod),
		RSI14: RSISeries(closes, RSIPeriod),
	}
}
