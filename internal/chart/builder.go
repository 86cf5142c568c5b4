package chart

import (
	"log"

	"StockLens/internal/model"
)

// BuildAll builds every chart for snap. Charts whose preconditions are not
// met are left nil.
func BuildAll(snap *model.Snapshot) Set {
	var set Set
	if snap == nil || snap.Series.Len() == 0 {
		return set
	}
	set.Price = BuildPriceChart(snap.Series, snap.Indicators, snap.Symbol)
	set.Volume = BuildVolumeChart(snap.Series, snap.Symbol)

	rsi, err := BuildRSIChart(snap.Series, snap.Indicators, snap.Symbol)
	if err != nil {
		log.Printf("[WARN] rsi chart for %s: %v", snap.Symbol, err)
	}
	set.RSI = rsi

	if snap.Range != nil {
		set.Gauge = GaugeFromStats(*snap.Range, snap.Symbol)
	} else if g, err := BuildRangeGauge(snap.Series, snap.Symbol); err != nil {
		log.Printf("[WARN] range gauge for %s: %v", snap.Symbol, err)
	} else {
		set.Gauge = g
	}
	return set
}
