package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for StockLens. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal    *prometheus.CounterVec // labels: status
	AnalysisDur      prometheus.Histogram
	ReportDur        prometheus.Histogram
	FetchDur         *prometheus.HistogramVec // labels: source
	FetchErrorsTotal *prometheus.CounterVec   // labels: source
	RefreshTotal     *prometheus.CounterVec   // labels: status
}

// NewMetrics registers and returns all metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_analyses_total",
			Help: "Dashboard analyses by outcome",
		}, []string{"status"}),
		AnalysisDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stocklens_analysis_duration_seconds",
			Help:    "End-to-end analysis latency",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		ReportDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stocklens_report_duration_seconds",
			Help:    "LLM crew latency",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		FetchDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stocklens_fetch_duration_seconds",
			Help:    "Market data fetch latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		FetchErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_fetch_errors_total",
			Help: "Market data fetch failures",
		}, []string{"source"}),
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocklens_watchlist_refresh_total",
			Help: "Scheduled watchlist symbol refreshes by outcome",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDur,
		m.ReportDur,
		m.FetchDur,
		m.FetchErrorsTotal,
		m.RefreshTotal,
		collectors.NewGoCollector(),
	)
	return m
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveAnalysis records one dashboard analysis.
func (m *Metrics) ObserveAnalysis(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(status(err)).Inc()
	m.AnalysisDur.Observe(d.Seconds())
}

// ObserveReport records one crew run.
func (m *Metrics) ObserveReport(d time.Duration) {
	if m == nil {
		return
	}
	m.ReportDur.Observe(d.Seconds())
}

// ObserveFetch records one provider call.
func (m *Metrics) ObserveFetch(source string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FetchDur.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		m.FetchErrorsTotal.WithLabelValues(source).Inc()
	}
}

// ObserveRefresh records one watchlist symbol refresh.
func (m *Metrics) ObserveRefresh(err error) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(status(err)).Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
