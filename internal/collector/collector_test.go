package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

var day0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func bar(offset int, close float64) model.PricePoint {
	return model.PricePoint{
		Date:   day0.AddDate(0, 0, offset),
		Open:   close,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: 100,
	}
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol("  aapl "))
	assert.NoError(t, ValidateSymbol("BRK.B"))
	assert.NoError(t, ValidateSymbol("^GSPC"))
	assert.Error(t, ValidateSymbol(""))
	assert.Error(t, ValidateSymbol("AA PL"))
	assert.Error(t, ValidateSymbol("aapl"))
}

func TestValidatePeriod(t *testing.T) {
	assert.NoError(t, ValidatePeriod("1y", "1d"))
	assert.Error(t, ValidatePeriod("7y", "1d"))
	assert.Error(t, ValidatePeriod("1y", "1m"))
}

func TestNormalizeSeriesSortsAndDedupes(t *testing.T) {
	dup := bar(1, 12)
	dup.Date = dup.Date.Add(15 * time.Hour)
	points := []model.PricePoint{
		bar(2, 13),
		bar(0, 10),
		bar(1, 11),
		{Date: day0.AddDate(0, 0, 3)}, // null bar
		dup,
	}

	series, err := normalizeSeries("TEST", points)
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())
	assert.Equal(t, []float64{10, 12, 13}, series.Closes())
	assert.NoError(t, series.Validate())
}

func TestNormalizeSeriesEmpty(t *testing.T) {
	_, err := normalizeSeries("TEST", []model.PricePoint{{Date: day0}})
	assert.Error(t, err)
}

func TestFactsFromSeries(t *testing.T) {
	points := make([]model.PricePoint, 0, 300)
	for i := 0; i < 300; i++ {
		points = append(points, bar(i, 100+float64(i%50)))
	}
	points[10].Low = 1 // outside the 252-point lookback
	points[100].High = 500
	points[200].Low = 50
	last := bar(300, 110)
	last.Open = 100
	last.Volume = 4242
	points = append(points, last)

	facts, err := FactsFromSeries(&model.PriceSeries{Symbol: "TEST", Points: points})
	require.NoError(t, err)
	assert.Equal(t, 110.0, facts.LatestTrading.Price)
	assert.Equal(t, int64(4242), facts.LatestTrading.Volume)
	assert.Equal(t, 10.0, facts.LatestTrading.ChangePct)
	assert.Equal(t, last.Day(), facts.LatestTrading.Date)
	assert.Equal(t, 500.0, facts.High52w.Price)
	assert.Equal(t, points[100].Day(), facts.High52w.Date)
	assert.Equal(t, 50.0, facts.Low52w.Price)
	assert.Equal(t, points[200].Day(), facts.Low52w.Date)
}

func TestFactsFromSeriesEmpty(t *testing.T) {
	_, err := FactsFromSeries(&model.PriceSeries{})
	assert.Error(t, err)
}

func TestCollectComputesSnapshot(t *testing.T) {
	c := NewCollector(&MockFetcher{Price: 150, Days: 120}, "", "")
	snap, err := c.Collect(context.Background(), " msft ")
	require.NoError(t, err)

	assert.Equal(t, "MSFT", snap.Symbol)
	assert.Equal(t, 120, snap.Series.Len())
	assert.NoError(t, snap.Series.Validate())
	require.NotNil(t, snap.Indicators)
	assert.Len(t, snap.Indicators.MA20, 120)
	require.NotNil(t, snap.Range)
	assert.GreaterOrEqual(t, snap.Range.PositionPct, 0.0)
	assert.LessOrEqual(t, snap.Range.PositionPct, 100.0)

	assert.True(t, snap.LatestMA50().Valid)
}

func TestCollectRejectsBadSymbol(t *testing.T) {
	c := NewCollector(&MockFetcher{}, "1y", "1d")
	_, err := c.Collect(context.Background(), "   ")
	assert.Error(t, err)
}

func TestCollectPropagatesFetchError(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: errors.New("offline")}, "1y", "1d")
	snap, err := c.Collect(context.Background(), "AAPL")
	assert.Nil(t, snap)
	assert.ErrorContains(t, err, "offline")
}

func TestMockFetcherFacts(t *testing.T) {
	m := &MockFetcher{Price: 50, Days: 30}
	facts, err := m.FetchFacts(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "XYZ Mock Corp", facts.CompanyName)
	assert.Equal(t, "mock", facts.Source)
	assert.Greater(t, facts.High52w.Price, facts.Low52w.Price)
}

const yahooBody = `{"chart":{"result":[{
  "meta":{"currency":"USD","symbol":"AAPL","longName":"Apple Inc.","exchangeTimezoneName":"UTC"},
  "timestamp":[1709535600,1709622000,1709708400],
  "indicators":{"quote":[{
    "open":[170.0,null,172.0],
    "high":[175.0,null,176.0],
    "low":[169.0,null,171.0],
    "close":[174.0,null,170.5],
    "volume":[1000,null,2000]
  }]}
}],"error":null}}`

func yahooServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &path
}

func TestYahooFetchHistory(t *testing.T) {
	srv, path := yahooServer(t, http.StatusOK, yahooBody)
	f := NewYahooFetcher("").SetBaseURL(srv.URL)

	series, err := f.FetchHistory(context.Background(), "AAPL", "1y", "1d")
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, []float64{174.0, 170.5}, series.Closes())
	assert.Equal(t, "2024-03-04", series.Points[0].Day())
	assert.True(t, strings.HasPrefix(*path, "/AAPL?"))
	assert.Contains(t, *path, "range=1y")
}

func TestYahooFetchHistoryMapsIndexSymbol(t *testing.T) {
	srv, path := yahooServer(t, http.StatusOK, yahooBody)
	f := NewYahooFetcher("").SetBaseURL(srv.URL)

	_, err := f.FetchHistory(context.Background(), "SPX500", "1y", "1d")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(*path, "/^GSPC?"))
}

func TestYahooFetchFacts(t *testing.T) {
	srv, _ := yahooServer(t, http.StatusOK, yahooBody)
	f := NewYahooFetcher("").SetBaseURL(srv.URL)

	facts, err := f.FetchFacts(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", facts.CompanyName)
	assert.Equal(t, "USD", facts.Currency)
	assert.Equal(t, 170.5, facts.LatestTrading.Price)
	assert.Equal(t, 176.0, facts.High52w.Price)
	assert.Equal(t, "yahoo", facts.Source)
}

func TestYahooAPIError(t *testing.T) {
	srv, _ := yahooServer(t, http.StatusNotFound,
		`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	f := NewYahooFetcher("").SetBaseURL(srv.URL)

	_, err := f.FetchHistory(context.Background(), "NOPE", "1y", "1d")
	assert.ErrorContains(t, err, "delisted")
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	sets    int
	lastTTL time.Duration
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	c.lastTTL = ttl
	return nil
}

type countingFetcher struct {
	MockFetcher
	calls int
}

func (f *countingFetcher) FetchHistory(ctx context.Context, symbol, period, interval string) (*model.PriceSeries, error) {
	f.calls++
	return f.MockFetcher.FetchHistory(ctx, symbol, period, interval)
}

func TestCachedFetcherServesSecondCallFromCache(t *testing.T) {
	inner := &countingFetcher{MockFetcher: MockFetcher{Days: 40}}
	cache := newMemCache()
	f := NewCachedFetcher(inner, cache, time.Minute)

	first, err := f.FetchHistory(context.Background(), "AAPL", "1y", "1d")
	require.NoError(t, err)
	second, err := f.FetchHistory(context.Background(), "AAPL", "1y", "1d")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, time.Minute, cache.lastTTL)
	assert.Equal(t, first.Closes(), second.Closes())
	assert.Contains(t, cache.data, "stocklens:history:mock:AAPL:1y:1d")
}

func TestCachedFetcherBypassesBrokenCache(t *testing.T) {
	inner := &countingFetcher{MockFetcher: MockFetcher{Days: 40}}
	cache := newMemCache()
	cache.getErr = errors.New("connection refused")
	f := NewCachedFetcher(inner, cache, time.Minute)

	series, err := f.FetchHistory(context.Background(), "AAPL", "1y", "1d")
	require.NoError(t, err)
	assert.Equal(t, 40, series.Len())
	assert.Equal(t, 1, inner.calls)
}

func TestCachedFetcherDiscardsCorruptEntry(t *testing.T) {
	inner := &countingFetcher{MockFetcher: MockFetcher{Days: 40}}
	cache := newMemCache()
	cache.data["stocklens:history:mock:AAPL:1y:1d"] = []byte("{not json")
	f := NewCachedFetcher(inner, cache, time.Minute)

	series, err := f.FetchHistory(context.Background(), "AAPL", "1y", "1d")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)

	var cached model.PriceSeries
	require.NoError(t, json.Unmarshal(cache.data["stocklens:history:mock:AAPL:1y:1d"], &cached))
	assert.Equal(t, series.Len(), cached.Len())
}
