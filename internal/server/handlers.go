package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"StockLens/internal/chart"
	"StockLens/internal/collector"
	"StockLens/internal/metrics"
	"StockLens/internal/recorder"
	"StockLens/internal/report"
)

const analyzeTimeout = 5 * time.Minute

// Reporter writes the markdown report for a symbol.
type Reporter interface {
	Kickoff(ctx context.Context, symbol string) (string, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	collector *collector.Collector
	reporter  Reporter // nil skips the report
	recorder  recorder.Recorder
	metrics   *metrics.Metrics
	session   *Session
	now       func() time.Time
}

// NewHandler creates a new Handler
func NewHandler(col *collector.Collector, rep Reporter, rec recorder.Recorder, m *metrics.Metrics) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Handler{
		collector: col,
		reporter:  rep,
		recorder:  rec,
		metrics:   m,
		session:   &Session{},
		now:       time.Now,
	}
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// Analyze handles POST /api/analyze
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	symbol := collector.NormalizeSymbol(req.Symbol)
	if err := collector.ValidateSymbol(symbol); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	start := time.Now()
	a, err := h.analyze(ctx, symbol)
	h.metrics.ObserveAnalysis(time.Since(start), err)
	if err != nil {
		log.Printf("[ERROR] analyze %s: %v", symbol, err)
		respondError(w, http.StatusBadGateway, "Error during analysis: "+err.Error())
		return
	}

	h.session.Set(a)
	log.Printf("[INFO] analysis for %s completed in %s", symbol, time.Since(start).Round(time.Millisecond))
	respondJSON(w, http.StatusOK, a)
}

func (h *Handler) analyze(ctx context.Context, symbol string) (*Analysis, error) {
	var md string
	if h.reporter != nil {
		start := time.Now()
		out, err := h.reporter.Kickoff(ctx, symbol)
		h.metrics.ObserveReport(time.Since(start))
		if err != nil {
			return nil, err
		}
		md = out
	}

	snap, err := h.collector.Collect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	charts := chart.BuildAll(snap)

	if err := h.recorder.RecordAnalysis(ctx, recorder.NewAnalysisRecord(snap, recorder.SourceDashboard, len(md))); err != nil {
		log.Printf("[ERROR] record analysis %s: %v", symbol, err)
	}
	return &Analysis{
		Symbol:      symbol,
		Report:      md,
		Snapshot:    snap,
		Charts:      charts,
		Available:   charts.Available(),
		CompletedAt: h.now(),
	}, nil
}

// GetAnalysis handles GET /api/analysis
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	a := h.session.Get()
	if a == nil {
		respondError(w, http.StatusNotFound, "no analysis yet")
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// GetCharts handles GET /api/charts/{symbol}
func (h *Handler) GetCharts(w http.ResponseWriter, r *http.Request) {
	symbol := collector.NormalizeSymbol(mux.Vars(r)["symbol"])
	if err := collector.ValidateSymbol(symbol); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := h.collector.Collect(r.Context(), symbol)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	charts := chart.BuildAll(snap)
	respondJSON(w, http.StatusOK, map[string]any{
		"symbol":    symbol,
		"charts":    charts,
		"available": charts.Available(),
		"range":     snap.Range,
	})
}

// DownloadReport handles GET /api/report/download
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	a := h.session.Get()
	if a == nil || a.Report == "" {
		respondError(w, http.StatusNotFound, "no report available")
		return
	}
	name := report.ReportFileName(a.Symbol, h.now())
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Write([]byte(a.Report))
}

// History handles GET /api/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := collector.NormalizeSymbol(q.Get("symbol"))
	limit := 20
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	recs, err := h.recorder.Recent(r.Context(), symbol, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []recorder.AnalysisRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"data_source":    h.collector.Fetcher.Name(),
		"report_enabled": h.reporter != nil,
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
