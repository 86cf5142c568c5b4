package collector

import (
	"fmt"
	"math"
	"sort"
	"time"

	"StockLens/internal/model"
)

// normalizeSeries drops empty bars, sorts ascending, collapses duplicate
// days (last bar wins) and validates the result.
func normalizeSeries(symbol string, points []model.PricePoint) (*model.PriceSeries, error) {
	kept := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		if p.Open <= 0 || p.High <= 0 || p.Low <= 0 || p.Close <= 0 {
			continue // null bars (holidays, halts)
		}
		p.Date = dayOf(p.Date)
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })

	out := make([]model.PricePoint, 0, len(kept))
	for _, p := range kept {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no price data returned", symbol)
	}
	series := &model.PriceSeries{Symbol: symbol, Points: out}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return series, nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// periodStart maps a provider period string to a start time before now.
func periodStart(now time.Time, period string) time.Time {
	switch period {
	case "1d":
		return now.AddDate(0, 0, -1)
	case "5d":
		return now.AddDate(0, 0, -5)
	case "1mo":
		return now.AddDate(0, -1, 0)
	case "3mo":
		return now.AddDate(0, -3, 0)
	case "6mo":
		return now.AddDate(0, -6, 0)
	case "2y":
		return now.AddDate(-2, 0, 0)
	case "5y":
		return now.AddDate(-5, 0, 0)
	case "10y":
		return now.AddDate(-10, 0, 0)
	case "ytd":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	case "max":
		return time.Unix(0, 0)
	default:
		return now.AddDate(-1, 0, 0)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
