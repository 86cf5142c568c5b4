package cli

import (
	"context"
	"fmt"
	"log"

	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/metrics"
	"StockLens/internal/report"
)

// newFetcher picks the data source and wraps it with the Redis cache when
// one is configured.
func newFetcher(cfg *config.Config) (collector.Fetcher, error) {
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	case "financego":
		fetcher = collector.NewFinanceGoFetcher()
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.DataSource.Provider)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	if cfg.Cache.RedisAddr == "" {
		return fetcher, nil
	}
	cache, err := collector.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		log.Printf("[WARN] init redis cache failed, fetching uncached: %v", err)
		return fetcher, nil
	}
	return collector.NewCachedFetcher(fetcher, cache, cfg.Cache.TTL), nil
}

func newCollector(cfg *config.Config, m *metrics.Metrics) (*collector.Collector, error) {
	if err := collector.ValidatePeriod(cfg.DataSource.Period, cfg.DataSource.Interval); err != nil {
		return nil, err
	}
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return nil, err
	}
	col := collector.NewCollector(fetcher, cfg.DataSource.Period, cfg.DataSource.Interval)
	col.Metrics = m
	return col, nil
}

// newCrew returns nil when no LLM key is configured.
func newCrew(ctx context.Context, cfg *config.Config, fetcher collector.Fetcher) (*report.Crew, error) {
	if !cfg.LLM.Enabled() {
		return nil, nil
	}
	crew, err := report.New(ctx, cfg.LLM, fetcher)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] report crew ready: %s via %s", cfg.LLM.Model, cfg.LLM.Provider)
	return crew, nil
}
