package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockLens/internal/model"
)

const maxRecent = 500

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets the dashboard read history while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			source        TEXT,
			current_price REAL,
			range_low     REAL,
			range_high    REAL,
			position_pct  REAL,
			ma20          REAL,
			ma50          REAL,
			rsi14         REAL,
			report_length INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_symbol_ts ON analyses(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS refresh_runs (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbols   INTEGER,
			failed    INTEGER,
			sent      INTEGER,
			note      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func nullable(v model.Value) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Value, Valid: v.Valid}
}

func fromNullable(n sql.NullFloat64) model.Value {
	return model.Value{Value: n.Float64, Valid: n.Valid}
}

func (r *SQLiteRecorder) RecordAnalysis(ctx context.Context, rec *AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `INSERT INTO analyses
		(timestamp, symbol, source, current_price, range_low, range_high, position_pct,
		 ma20, ma50, rsi14, report_length)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		rec.Timestamp.Unix(), rec.Symbol, rec.Source,
		rec.CurrentPrice, rec.RangeLow, rec.RangeHigh, rec.PositionPct,
		nullable(rec.MA20), nullable(rec.MA50), nullable(rec.RSI14),
		rec.ReportLength,
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

func (r *SQLiteRecorder) RecordRefresh(ctx context.Context, evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sent := 0
	if evt.Sent {
		sent = 1
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO refresh_runs
		(timestamp, symbols, failed, sent, note)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbols, evt.Failed, sent, evt.Note,
	)
	return err
}

func (r *SQLiteRecorder) Recent(ctx context.Context, symbol string, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	rows, err := r.db.QueryContext(ctx, `SELECT
		id, timestamp, symbol, source, current_price, range_low, range_high, position_pct,
		ma20, ma50, rsi14, report_length
		FROM analyses
		WHERE (? = '' OR symbol = ?)
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, symbol, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var (
			rec            AnalysisRecord
			ts             int64
			ma20, ma50, rs sql.NullFloat64
			source         sql.NullString
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Symbol, &source,
			&rec.CurrentPrice, &rec.RangeLow, &rec.RangeHigh, &rec.PositionPct,
			&ma20, &ma50, &rs, &rec.ReportLength); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0)
		rec.Source = source.String
		rec.MA20, rec.MA50, rec.RSI14 = fromNullable(ma20), fromNullable(ma50), fromNullable(rs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

// Open returns a SQLite recorder, or a NoopRecorder when path is empty or
// the database cannot be opened.
func Open(path string) Recorder {
	if path == "" {
		return NewNoopRecorder()
	}
	rec, err := NewSQLiteRecorder(path)
	if err != nil {
		log.Printf("[WARN] sqlite recorder unavailable, history disabled: %v", err)
		return NewNoopRecorder()
	}
	return rec
}
