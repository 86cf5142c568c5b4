package collector

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"StockLens/internal/model"
)

// FinanceGoFetcher implements Fetcher on top of the finance-go SDK, which
// also exposes the fundamentals the chart API lacks.
type FinanceGoFetcher struct {
	now func() time.Time
}

func NewFinanceGoFetcher() *FinanceGoFetcher {
	return &FinanceGoFetcher{now: time.Now}
}

func (f *FinanceGoFetcher) Name() string { return "financego" }

func (f *FinanceGoFetcher) FetchHistory(ctx context.Context, symbol, period, interval string) (*model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := f.now()
	start := periodStart(end, period)
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.Interval(interval),
	})

	var points []model.PricePoint
	for iter.Next() {
		points = append(points, pointFromBar(iter.Bar()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("financego history %s: %w", symbol, err)
	}
	return normalizeSeries(symbol, points)
}

func pointFromBar(bar *finance.ChartBar) model.PricePoint {
	return model.PricePoint{
		Date:   time.Unix(int64(bar.Timestamp), 0),
		Open:   toFloat(bar.Open),
		High:   toFloat(bar.High),
		Low:    toFloat(bar.Low),
		Close:  toFloat(bar.Close),
		Volume: int64(bar.Volume),
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// FetchFacts combines the equity quote with facts derived from history.
func (f *FinanceGoFetcher) FetchFacts(ctx context.Context, symbol string) (*model.StockFacts, error) {
	series, err := f.FetchHistory(ctx, symbol, "1y", "1d")
	if err != nil {
		return nil, err
	}
	facts, err := FactsFromSeries(series)
	if err != nil {
		return nil, err
	}
	facts.Source = f.Name()

	q, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("financego quote %s: %w", symbol, err)
	}
	applyQuote(facts, q)
	return facts, nil
}

// applyQuote copies the fundamentals reported by the equity quote onto facts.
func applyQuote(facts *model.StockFacts, q *finance.Equity) {
	if q == nil {
		return
	}
	if q.ShortName != "" {
		facts.CompanyName = q.ShortName
	}
	facts.Currency = q.CurrencyID
	facts.MarketState = string(q.MarketState)
	facts.MarketCap = q.MarketCap
	facts.ForwardPE = q.ForwardPE
	facts.DividendYield = q.TrailingAnnualDividendYield
}
