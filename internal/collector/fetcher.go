package collector

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"StockLens/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol, period, interval string) (*model.PriceSeries, error)
	FetchFacts(ctx context.Context, symbol string) (*model.StockFacts, error)
	Name() string
}

var (
	symbolPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^]{0,14}$`)

	validPeriods = map[string]bool{
		"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
		"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
	}
	validIntervals = map[string]bool{
		"1d": true, "5d": true, "1wk": true, "1mo": true, "3mo": true,
	}
)

// NormalizeSymbol upper-cases and trims a user-entered ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol rejects empty or malformed tickers.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol %q", symbol)
	}
	return nil
}

// ValidatePeriod checks period and interval against what the providers accept.
func ValidatePeriod(period, interval string) error {
	if !validPeriods[period] {
		return fmt.Errorf("unsupported period %q", period)
	}
	if !validIntervals[interval] {
		return fmt.Errorf("unsupported interval %q", interval)
	}
	return nil
}
