package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/collector"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

type fakeReporter struct {
	report string
	err    error
	calls  []string
}

func (f *fakeReporter) Kickoff(_ context.Context, symbol string) (string, error) {
	f.calls = append(f.calls, symbol)
	return f.report, f.err
}

type memRecorder struct {
	recorder.NoopRecorder
	recs []recorder.AnalysisRecord
}

func (m *memRecorder) RecordAnalysis(_ context.Context, rec *recorder.AnalysisRecord) error {
	m.recs = append([]recorder.AnalysisRecord{*rec}, m.recs...)
	return nil
}

func (m *memRecorder) Recent(_ context.Context, symbol string, limit int) ([]recorder.AnalysisRecord, error) {
	var out []recorder.AnalysisRecord
	for _, r := range m.recs {
		if (symbol == "" || r.Symbol == symbol) && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type fixture struct {
	router   http.Handler
	handler  *Handler
	fetcher  *collector.MockFetcher
	reporter *fakeReporter
	recorder *memRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fetcher:  &collector.MockFetcher{Price: 120, Days: 90},
		reporter: &fakeReporter{report: "# Executive Summary\nLooks fine."},
		recorder: &memRecorder{},
	}
	m := metrics.NewMetrics()
	f.handler = NewHandler(collector.NewCollector(f.fetcher, "1y", "1d"), f.reporter, f.recorder, m)
	f.handler.now = func() time.Time { return time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC) }
	f.router = SetupRoutes(f.handler, m.Handler())
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestIndexServesDashboard(t *testing.T) {
	f := newFixture(t)
	rec := f.do("GET", "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "plotly")
	assert.Contains(t, rec.Body.String(), "DOMPurify.sanitize(marked.parse(a.report))")
}

func TestAnalysisNotFoundBeforeFirstRun(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusNotFound, f.do("GET", "/api/analysis", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do("GET", "/api/report/download", "").Code)
}

func TestAnalyzeReplacesSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do("POST", "/api/analyze", `{"symbol":" aapl "}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "AAPL", body["symbol"])
	assert.Equal(t, "# Executive Summary\nLooks fine.", body["report"])
	assert.ElementsMatch(t, []any{"candlestick", "bar", "line", "gauge"}, body["available"])

	charts := body["charts"].(map[string]any)
	price := charts["price"].(map[string]any)
	assert.Equal(t, "candlestick", price["kind"])
	assert.Equal(t, []string{"AAPL"}, f.reporter.calls)

	got := decode(t, f.do("GET", "/api/analysis", ""))
	assert.Equal(t, "AAPL", got["symbol"])

	require.Len(t, f.recorder.recs, 1)
	assert.Equal(t, recorder.SourceDashboard, f.recorder.recs[0].Source)
	assert.Equal(t, len("# Executive Summary\nLooks fine."), f.recorder.recs[0].ReportLength)
}

func TestFailedAnalyzeKeepsPriorState(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do("POST", "/api/analyze", `{"symbol":"AAPL"}`).Code)

	f.reporter.err = errors.New("llm quota exceeded")
	rec := f.do("POST", "/api/analyze", `{"symbol":"MSFT"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "llm quota exceeded")

	f.reporter.err = nil
	f.fetcher.Err = errors.New("yahoo unavailable")
	assert.Equal(t, http.StatusBadGateway, f.do("POST", "/api/analyze", `{"symbol":"MSFT"}`).Code)

	got := decode(t, f.do("GET", "/api/analysis", ""))
	assert.Equal(t, "AAPL", got["symbol"])
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/api/analyze", `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/api/analyze", `{"symbol":""}`).Code)
	assert.Empty(t, f.reporter.calls)
}

func TestAnalyzeWithoutReporter(t *testing.T) {
	f := newFixture(t)
	f.handler.reporter = nil

	rec := f.do("POST", "/api/analyze", `{"symbol":"NVDA"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", decode(t, rec)["report"])
	assert.Equal(t, http.StatusNotFound, f.do("GET", "/api/report/download", "").Code)
}

func TestChartsDoNotTouchSession(t *testing.T) {
	f := newFixture(t)
	rec := f.do("GET", "/api/charts/tsla", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "TSLA", body["symbol"])
	assert.NotNil(t, body["charts"].(map[string]any)["gauge"])

	assert.Equal(t, http.StatusNotFound, f.do("GET", "/api/analysis", "").Code)
	assert.Empty(t, f.reporter.calls)
}

func TestChartsShortSeriesHasAbsentRSI(t *testing.T) {
	f := newFixture(t)
	f.fetcher.Days = 10

	body := decode(t, f.do("GET", "/api/charts/AAPL", ""))
	charts := body["charts"].(map[string]any)
	assert.Nil(t, charts["rsi"])
	assert.NotNil(t, charts["price"])
	assert.ElementsMatch(t, []any{"candlestick", "bar", "gauge"}, body["available"])
}

func TestDownloadReport(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do("POST", "/api/analyze", `{"symbol":"AAPL"}`).Code)

	rec := f.do("GET", "/api/report/download", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="stock_analysis_AAPL_20240603.md"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "# Executive Summary\nLooks fine.", rec.Body.String())
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	f.do("POST", "/api/analyze", `{"symbol":"AAPL"}`)
	f.do("POST", "/api/analyze", `{"symbol":"MSFT"}`)

	var recs []recorder.AnalysisRecord
	rec := f.do("GET", "/api/history?symbol=aapl&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "AAPL", recs[0].Symbol)
	assert.IsType(t, model.Value{}, recs[0].RSI14)

	assert.Equal(t, http.StatusBadRequest, f.do("GET", "/api/history?limit=-1", "").Code)
	assert.Equal(t, "[]\n", f.do("GET", "/api/history?symbol=NONE", "").Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)
	health := decode(t, f.do("GET", "/health", ""))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "mock", health["data_source"])

	f.do("POST", "/api/analyze", `{"symbol":"AAPL"}`)
	rec := f.do("GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `stocklens_analyses_total{status="ok"} 1`)
}
