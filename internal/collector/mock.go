package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"StockLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Days   int
	Series *model.PriceSeries
	Facts  *model.StockFacts
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, symbol, _, _ string) (*model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series, nil
	}
	days := m.Days
	if days == 0 {
		days = tradingDaysPerYear
	}
	price := m.Price
	if price == 0 {
		price = 100
	}
	return normalizeSeries(symbol, GenerateMockBars(price, days, time.Now()))
}

func (m *MockFetcher) FetchFacts(ctx context.Context, symbol string) (*model.StockFacts, error) {
	if m.Facts != nil {
		return m.Facts, nil
	}
	series, err := m.FetchHistory(ctx, symbol, "1y", "1d")
	if err != nil {
		return nil, err
	}
	facts, err := FactsFromSeries(series)
	if err != nil {
		return nil, err
	}
	facts.CompanyName = fmt.Sprintf("%s Mock Corp", symbol)
	facts.Source = m.Name()
	return facts, nil
}

// GenerateMockBars builds count weekday bars ending before end, oscillating
// around basePrice so every indicator has something to show.
func GenerateMockBars(basePrice float64, count int, end time.Time) []model.PricePoint {
	bars := make([]model.PricePoint, 0, count)
	day := dayOf(end)
	for len(bars) < count {
		day = day.AddDate(0, 0, -1)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		bars = append(bars, model.PricePoint{Date: day})
	}
	for i := range bars {
		j := count - 1 - i
		p := basePrice * (1 + 0.1*math.Sin(float64(j)/9) + float64(j-count/2)*0.0005)
		bars[i].Open = p * 0.998
		bars[i].High = p * 1.006
		bars[i].Low = p * 0.993
		bars[i].Close = p * (1 + 0.004*math.Cos(float64(j)))
		bars[i].Volume = int64(1000000 + (j%5)*150000)
	}
	return bars
}
