package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
)

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher  Fetcher
	Period   string
	Interval string
	Metrics  *metrics.Metrics
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, period, interval string) *Collector {
	if period == "" {
		period = "1y"
	}
	if interval == "" {
		interval = "1d"
	}
	return &Collector{Fetcher: fetcher, Period: period, Interval: interval}
}

// Collect fetches history for symbol and computes all indicators.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.Snapshot, error) {
	symbol = NormalizeSymbol(symbol)
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	start := time.Now()
	series, err := c.Fetcher.FetchHistory(ctx, symbol, c.Period, c.Interval)
	c.Metrics.ObserveFetch(c.Fetcher.Name(), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	snap := &model.Snapshot{
		Symbol:     symbol,
		Series:     series,
		Indicators: calculator.ComputeIndicators(series),
		FetchedAt:  time.Now(),
	}
	if stats, err := calculator.ComputeRangeStats(series); err != nil {
		log.Printf("[WARN] range stats for %s: %v", symbol, err)
	} else {
		snap.Range = &stats
	}
	return snap, nil
}

// Facts fetches the live facts used by the report pipeline.
func (c *Collector) Facts(ctx context.Context, symbol string) (*model.StockFacts, error) {
	symbol = NormalizeSymbol(symbol)
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	start := time.Now()
	facts, err := c.Fetcher.FetchFacts(ctx, symbol)
	c.Metrics.ObserveFetch(c.Fetcher.Name(), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("fetch facts: %w", err)
	}
	return facts, nil
}
