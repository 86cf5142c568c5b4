package calculator

import (
	"errors"

	"StockLens/internal/model"
)

const (
	ShortMAPeriod = 20
	LongMAPeriod  = 50
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// SMASeries returns the trailing simple moving average at every index.
// Values before index period-1 are absent.
func SMASeries(prices []float64, period int) []model.Value {
	out := make([]model.Value, len(prices))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(prices); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += prices[j]
		}
		out[i] = model.Some(sum / float64(period))
	}
	return out
}
