package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"StockLens/internal/collector"
	"StockLens/internal/metrics"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"
)

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler refreshes the watchlist on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender // nil disables digests
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Ctx       context.Context

	mu        sync.Mutex
	watchlist []string
	running   bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sender Sender, rec recorder.Recorder, watchlist []string) *Scheduler {
	s := &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  sender,
		Recorder:  rec,
		Ctx:       ctx,
	}
	for _, sym := range watchlist {
		s.Add(sym)
	}
	return s
}

// Register adds the refresh task on spec (six fields, seconds first).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.Refresh(s.Ctx) }); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the refresh immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() []notifier.DigestEntry {
	return s.Refresh(s.Ctx)
}

// Watchlist returns a copy of the symbols refreshed on schedule.
func (s *Scheduler) Watchlist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.watchlist...)
}

// Add puts symbol on the watchlist. It reports false for invalid or
// duplicate symbols.
func (s *Scheduler) Add(symbol string) bool {
	symbol = collector.NormalizeSymbol(symbol)
	if collector.ValidateSymbol(symbol) != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.watchlist {
		if w == symbol {
			return false
		}
	}
	s.watchlist = append(s.watchlist, symbol)
	return true
}

// Remove drops symbol from the watchlist.
func (s *Scheduler) Remove(symbol string) bool {
	symbol = collector.NormalizeSymbol(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.watchlist {
		if w == symbol {
			s.watchlist = append(s.watchlist[:i], s.watchlist[i+1:]...)
			return true
		}
	}
	return false
}

// Refresh collects and records every watchlist symbol, then sends the digest.
// Overlapping runs are skipped.
func (s *Scheduler) Refresh(ctx context.Context) []notifier.DigestEntry {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[WARN] refresh already running, skipping")
		return nil
	}
	s.running = true
	symbols := append([]string(nil), s.watchlist...)
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if len(symbols) == 0 {
		log.Println("[INFO] watchlist empty, nothing to refresh")
		return nil
	}
	log.Printf("[INFO] refreshing watchlist: %s", strings.Join(symbols, ", "))

	entries := make([]notifier.DigestEntry, 0, len(symbols))
	failed := 0
	for _, sym := range symbols {
		snap, err := s.Collector.Collect(ctx, sym)
		s.Metrics.ObserveRefresh(err)
		if err != nil {
			log.Printf("[ERROR] refresh %s: %v", sym, err)
			failed++
			entries = append(entries, notifier.DigestEntry{Symbol: sym, Err: err})
			continue
		}
		if err := s.Recorder.RecordAnalysis(ctx, recorder.NewAnalysisRecord(snap, recorder.SourceScheduler, 0)); err != nil {
			log.Printf("[ERROR] record analysis %s: %v", sym, err)
		}
		entries = append(entries, notifier.DigestEntry{Symbol: sym, Snapshot: snap})
	}

	sent := s.trySend(ctx, notifier.FormatDigest(entries, time.Now()))
	if err := s.Recorder.RecordRefresh(ctx, &recorder.RefreshEvent{
		Symbols: len(symbols),
		Failed:  failed,
		Sent:    sent,
	}); err != nil {
		log.Printf("[ERROR] record refresh: %v", err)
	}
	log.Printf("[INFO] refresh done: %d ok, %d failed", len(symbols)-failed, failed)
	return entries
}

const helpText = `Available commands:
• /quote SYMBOL - indicators for one symbol
• /watchlist - show the watchlist
• /watch SYMBOL - add to the watchlist
• /unwatch SYMBOL - remove from the watchlist
• /refresh - refresh the watchlist now`

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch strings.ToLower(fields[0]) {
	case "/quote", "/analyze":
		if arg == "" {
			return "Usage: /quote SYMBOL"
		}
		snap, err := s.Collector.Collect(ctx, arg)
		if err != nil {
			return fmt.Sprintf("❌ %s: %v", collector.NormalizeSymbol(arg), err)
		}
		return notifier.FormatSnapshot(snap)
	case "/watchlist":
		list := s.Watchlist()
		if len(list) == 0 {
			return "Watchlist is empty."
		}
		return "👀 " + strings.Join(list, ", ")
	case "/watch":
		if !s.Add(arg) {
			return fmt.Sprintf("Cannot add %q.", arg)
		}
		return fmt.Sprintf("Added %s.", collector.NormalizeSymbol(arg))
	case "/unwatch":
		if !s.Remove(arg) {
			return fmt.Sprintf("%q is not on the watchlist.", arg)
		}
		return fmt.Sprintf("Removed %s.", collector.NormalizeSymbol(arg))
	case "/refresh":
		// The digest itself is the reply.
		s.Refresh(ctx)
		return ""
	default:
		return helpText
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) bool {
	if s.Notifier == nil {
		return false
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
		return false
	}
	return true
}
