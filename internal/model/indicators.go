package model

import (
	"encoding/json"
	"time"
)

// Value is an optional indicator reading. Absent values encode as JSON null.
type Value struct {
	Value float64
	Valid bool
}

// Some wraps a defined reading.
func Some(v float64) Value { return Value{Value: v, Valid: true} }

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	if err := json.Unmarshal(data, &v.Value); err != nil {
		return err
	}
	v.Valid = true
	return nil
}

// IndicatorSet holds per-point indicators keyed by the same dates as the series.
type IndicatorSet struct {
	Dates []time.Time `json:"dates"`
	MA20  []Value     `json:"ma20"`
	MA50  []Value     `json:"ma50"`
	RSI14 []Value     `json:"rsi14"`
}

// LatestDefined returns the last valid reading in vals.
func LatestDefined(vals []Value) Value {
	for i := len(vals) - 1; i >= 0; i-- {
		if vals[i].Valid {
			return vals[i]
		}
	}
	return Value{}
}

// CountDefined returns how many readings in vals are present.
func CountDefined(vals []Value) int {
	n := 0
	for _, v := range vals {
		if v.Valid {
			n++
		}
	}
	return n
}

// RangeStats describes where the current price sits in the observed range.
type RangeStats struct {
	CurrentPrice float64 `json:"current_price"`
	RangeLow     float64 `json:"range_low"`
	RangeHigh    float64 `json:"range_high"`
	PositionPct  float64 `json:"position_pct"`
	// Degenerate is set when RangeHigh == RangeLow; PositionPct is then 50.
	Degenerate bool `json:"degenerate"`
}

// Snapshot is one complete local analysis of a symbol.
type Snapshot struct {
	Symbol     string        `json:"symbol"`
	Series     *PriceSeries  `json:"series"`
	Indicators *IndicatorSet `json:"indicators"`
	Range      *RangeStats   `json:"range"`
	FetchedAt  time.Time     `json:"fetched_at"`
}

// LatestMA20 returns the last MA20 point, absent when there is no snapshot.
func (s *Snapshot) LatestMA20() Value {
	return latestOf(s, func(i *IndicatorSet) []Value { return i.MA20 })
}

func (s *Snapshot) LatestMA50() Value {
	return latestOf(s, func(i *IndicatorSet) []Value { return i.MA50 })
}

func (s *Snapshot) LatestRSI() Value {
	return latestOf(s, func(i *IndicatorSet) []Value { return i.RSI14 })
}

func latestOf(s *Snapshot, pick func(*IndicatorSet) []Value) Value {
	if s == nil || s.Indicators == nil {
		return Value{}
	}
	return LatestDefined(pick(s.Indicators))
}
