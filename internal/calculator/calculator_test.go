package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

var baseDay = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func seriesFromCloses(closes ...float64) *model.PriceSeries {
	s := &model.PriceSeries{Symbol: "TEST"}
	for i, c := range closes {
		s.Points = append(s.Points, model.PricePoint{
			Date:   baseDay.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		})
	}
	return s
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1e-12)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestSMASeries_WindowBoundary(t *testing.T) {
	closes := ramp(25, 10, 1)
	ma := SMASeries(closes, 20)
	for i := 0; i < 19; i++ {
		assert.False(t, ma[i].Valid, "index %d should be absent", i)
	}
	for i := 19; i < 25; i++ {
		require.True(t, ma[i].Valid, "index %d should be defined", i)
	}
	// mean of 10..29
	assert.InDelta(t, 19.5, ma[19].Value, 1e-9)
}

func TestComputeIndicators_ShortSeriesHasNoMA20(t *testing.T) {
	for n := 0; n < 20; n++ {
		ind := ComputeIndicators(seriesFromCloses(ramp(n, 50, 0.5)...))
		assert.Len(t, ind.MA20, n)
		assert.Zero(t, model.CountDefined(ind.MA20), "n=%d", n)
		assert.Zero(t, model.CountDefined(ind.MA50), "n=%d", n)
	}
}

func TestComputeIndicators_LastMA20IsMeanOfLast20(t *testing.T) {
	closes := []float64{
		101.2, 99.8, 100.4, 102.9, 104.1, 103.3, 105.0, 104.2, 106.8, 107.5,
		108.1, 106.4, 105.9, 107.7, 109.3, 110.0, 108.6, 111.2, 112.4, 111.9,
		113.0, 114.5, 112.8, 115.1, 116.3, 115.0, 117.2,
	}
	ind := ComputeIndicators(seriesFromCloses(closes...))
	last := ind.MA20[len(closes)-1]
	require.True(t, last.Valid)

	sum := 0.0
	for _, c := range closes[len(closes)-20:] {
		sum += c
	}
	assert.InDelta(t, sum/20, last.Value, 1e-9)
}

func TestComputeIndicators_MA50Boundary(t *testing.T) {
	ind := ComputeIndicators(seriesFromCloses(ramp(60, 20, 0.25)...))
	assert.False(t, ind.MA50[48].Valid)
	assert.True(t, ind.MA50[49].Valid)
	assert.Equal(t, 11, model.CountDefined(ind.MA50))
}

func TestRSISeries_DefinedFromFifteenthPoint(t *testing.T) {
	closes := []float64{
		44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84, 46.08,
		45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41, 46.22, 45.64,
	}
	rsi := RSISeries(closes, RSIPeriod)
	for i := 0; i < 14; i++ {
		assert.False(t, rsi[i].Valid, "index %d", i)
	}
	for i := 14; i < len(closes); i++ {
		require.True(t, rsi[i].Valid, "index %d", i)
		assert.GreaterOrEqual(t, rsi[i].Value, 0.0)
		assert.LessOrEqual(t, rsi[i].Value, 100.0)
	}
	last, err := CalculateRSI(closes, RSIPeriod)
	require.NoError(t, err)
	assert.InDelta(t, last, rsi[len(closes)-1].Value, 1e-12)
}

func TestRSI_MonotonicSeries(t *testing.T) {
	up := RSISeries(ramp(30, 100, 1.5), RSIPeriod)
	down := RSISeries(ramp(30, 200, -2), RSIPeriod)
	for i := 14; i < 30; i++ {
		assert.Equal(t, 100.0, up[i].Value, "rising index %d", i)
		assert.Equal(t, 0.0, down[i].Value, "falling index %d", i)
	}
}

func TestRSI_FlatWindowIsHundred(t *testing.T) {
	v, err := CalculateRSI(ramp(15, 42, 0), RSIPeriod)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)
}

func TestCalculateRSI_Insufficient(t *testing.T) {
	_, err := CalculateRSI(ramp(14, 1, 1), RSIPeriod)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestComputeIndicators_Idempotent(t *testing.T) {
	s := seriesFromCloses(ramp(70, 30, 0.7)...)
	s.Points[33].Close = 12
	before := append([]model.PricePoint(nil), s.Points...)

	a := ComputeIndicators(s)
	b := ComputeIndicators(s)
	assert.Equal(t, a, b)
	assert.Equal(t, before, s.Points, "input must not be mutated")
}

func TestComputeIndicators_NoLookAhead(t *testing.T) {
	closes := ramp(40, 80, 0.3)
	full := ComputeIndicators(seriesFromCloses(closes...))
	prefix := ComputeIndicators(seriesFromCloses(closes[:25]...))
	for i := 0; i < 25; i++ {
		assert.Equal(t, prefix.MA20[i], full.MA20[i])
		assert.Equal(t, prefix.RSI14[i], full.RSI14[i])
	}
}

func TestComputeRangeStats(t *testing.T) {
	s := &model.PriceSeries{Points: []model.PricePoint{
		{Date: baseDay, Open: 98, Low: 90, High: 110, Close: 100},
		{Date: baseDay.AddDate(0, 0, 1), Open: 101, Low: 95, High: 120, Close: 105},
	}}
	stats, err := ComputeRangeStats(s)
	require.NoError(t, err)
	assert.Equal(t, 90.0, stats.RangeLow)
	assert.Equal(t, 120.0, stats.RangeHigh)
	assert.Equal(t, 105.0, stats.CurrentPrice)
	assert.InDelta(t, 50.0, stats.PositionPct, 1e-12)
	assert.False(t, stats.Degenerate)
}

func TestComputeRangeStats_Empty(t *testing.T) {
	_, err := ComputeRangeStats(&model.PriceSeries{})
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = ComputeRangeStats(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestComputeRangeStats_Degenerate(t *testing.T) {
	s := &model.PriceSeries{Points: []model.PricePoint{
		{Date: baseDay, Open: 10, Low: 10, High: 10, Close: 10},
	}}
	stats, err := ComputeRangeStats(s)
	require.NoError(t, err)
	assert.True(t, stats.Degenerate)
	assert.Equal(t, DegeneratePosition, stats.PositionPct)
}

func TestPositionPct_Unclamped(t *testing.T) {
	pct, degenerate := PositionPct(130, 120, 90)
	assert.False(t, degenerate)
	assert.InDelta(t, 133.333, pct, 1e-3)
}
