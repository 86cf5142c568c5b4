package calculator

import (
	"errors"

	"StockLens/internal/model"
)

const RSIPeriod = 14

// CalculateRSI returns the RSI at the last close, using simple trailing
// averages of gains and losses over period deltas.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 0, ErrInsufficientData
	}
	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	return rsiFromAverages(gains/float64(period), losses/float64(period)), nil
}

// RSISeries returns RSI at every index. Index period is the first defined one.
func RSISeries(closes []float64, period int) []model.Value {
	out := make([]model.Value, len(closes))
	if period <= 0 {
		return out
	}
	for i := period; i < len(closes); i++ {
		var gains, losses float64
		for j := i - period + 1; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				gains += change
			} else {
				losses -= change
			}
		}
		out[i] = model.Some(rsiFromAverages(gains/float64(period), losses/float64(period)))
	}
	return out
}

// avgLoss == 0 means RS is infinite; that includes a flat window.
func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
