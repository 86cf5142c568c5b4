package server

import (
	"sync"
	"time"

	"StockLens/internal/chart"
	"StockLens/internal/model"
)

// Analysis is the dashboard state after one successful run.
type Analysis struct {
	Symbol      string          `json:"symbol"`
	Report      string          `json:"report"`
	Snapshot    *model.Snapshot `json:"snapshot"`
	Charts      chart.Set       `json:"charts"`
	Available   []chart.Kind    `json:"available"`
	CompletedAt time.Time       `json:"completed_at"`
}

// Session holds the single shared dashboard state. A failed analysis never
// reaches Set, so the previous state survives it.
type Session struct {
	mu      sync.RWMutex
	current *Analysis
}

func (s *Session) Get() *Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Session) Set(a *Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = a
}
