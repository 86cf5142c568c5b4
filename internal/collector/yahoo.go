package collector

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"StockLens/internal/model"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	client    *resty.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	client := resty.New().
		SetBaseURL(yahooChartURL).
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0").
		SetRetryCount(2).
		SetRetryWaitTime(time.Second)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooFetcher{
		client: client,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string  `json:"currency"`
				Symbol               string  `json:"symbol"`
				LongName             string  `json:"longName"`
				ShortName            string  `json:"shortName"`
				ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	var chart yahooChart
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"interval": interval, "range": rng}).
		SetResult(&chart).
		SetError(&chart).
		Get("/" + url.PathEscape(f.yahooSymbol(symbol)))
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}
	return &chart, nil
}

// FetchHistory returns bars for period, normalized to calendar days in the
// exchange's time zone.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol, period, interval string) (*model.PriceSeries, error) {
	chart, err := f.fetchChart(ctx, symbol, interval, period)
	if err != nil {
		return nil, err
	}
	return seriesFromChart(symbol, chart)
}

// FetchFacts derives facts from one year of daily history plus chart metadata.
// The chart API carries no fundamentals, so those fields stay empty.
func (f *YahooFetcher) FetchFacts(ctx context.Context, symbol string) (*model.StockFacts, error) {
	chart, err := f.fetchChart(ctx, symbol, "1d", "1y")
	if err != nil {
		return nil, err
	}
	series, err := seriesFromChart(symbol, chart)
	if err != nil {
		return nil, err
	}
	facts, err := FactsFromSeries(series)
	if err != nil {
		return nil, err
	}
	meta := chart.Chart.Result[0].Meta
	facts.Currency = meta.Currency
	switch {
	case meta.LongName != "":
		facts.CompanyName = meta.LongName
	case meta.ShortName != "":
		facts.CompanyName = meta.ShortName
	}
	facts.Source = f.Name()
	return facts, nil
}

func seriesFromChart(symbol string, chart *yahooChart) (*model.PriceSeries, error) {
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote block for %s", symbol)
	}
	loc := time.UTC
	if tz := result.Meta.ExchangeTimezoneName; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	quote := result.Indicators.Quote[0]
	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		points = append(points, model.PricePoint{
			Date:   time.Unix(ts, 0).In(loc),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  at(quote.Close, i),
			Volume: int64(at(quote.Volume, i)),
		})
	}
	return normalizeSeries(symbol, points)
}

// SetBaseURL points the fetcher at a different chart endpoint.
func (f *YahooFetcher) SetBaseURL(baseURL string) *YahooFetcher {
	f.client.SetBaseURL(baseURL)
	return f
}
