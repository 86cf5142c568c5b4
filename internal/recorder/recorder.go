package recorder

import (
	"context"
	"time"

	"StockLens/internal/model"
)

// Sources of a recorded analysis.
const (
	SourceDashboard = "dashboard"
	SourceScheduler = "scheduler"
	SourceCLI       = "cli"
)

// AnalysisRecord is one completed analysis of a symbol.
type AnalysisRecord struct {
	ID           int64       `json:"id"`
	Timestamp    time.Time   `json:"timestamp"`
	Symbol       string      `json:"symbol"`
	Source       string      `json:"source"`
	CurrentPrice float64     `json:"current_price"`
	RangeLow     float64     `json:"range_low"`
	RangeHigh    float64     `json:"range_high"`
	PositionPct  float64     `json:"position_pct"`
	MA20         model.Value `json:"ma20"`
	MA50         model.Value `json:"ma50"`
	RSI14        model.Value `json:"rsi14"`
	ReportLength int         `json:"report_length"`
}

// NewAnalysisRecord extracts the headline numbers of a snapshot.
func NewAnalysisRecord(snap *model.Snapshot, source string, reportLen int) *AnalysisRecord {
	rec := &AnalysisRecord{
		Timestamp:    snap.FetchedAt,
		Symbol:       snap.Symbol,
		Source:       source,
		MA20:         snap.LatestMA20(),
		MA50:         snap.LatestMA50(),
		RSI14:        snap.LatestRSI(),
		ReportLength: reportLen,
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	if r := snap.Range; r != nil {
		rec.CurrentPrice = r.CurrentPrice
		rec.RangeLow = r.RangeLow
		rec.RangeHigh = r.RangeHigh
		rec.PositionPct = r.PositionPct
	}
	return rec
}

// RefreshEvent records one scheduled watchlist refresh.
type RefreshEvent struct {
	Symbols int
	Failed  int
	Sent    bool // digest delivered to Telegram
	Note    string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordAnalysis(ctx context.Context, rec *AnalysisRecord) error
	RecordRefresh(ctx context.Context, evt *RefreshEvent) error
	// Recent returns up to limit records, newest first. An empty symbol
	// matches every symbol.
	Recent(ctx context.Context, symbol string, limit int) ([]AnalysisRecord, error)
	Close() error
}
