package model

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in chart specs.
const DateLayout = "2006-01-02"

// PricePoint represents a single daily bar.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Day returns the bar date formatted as YYYY-MM-DD.
func (p PricePoint) Day() string {
	return p.Date.Format(DateLayout)
}

// Down reports whether the bar closed below its open.
func (p PricePoint) Down() bool {
	return p.Close < p.Open
}

// PriceSeries holds daily bars for one symbol, ascending by date.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Last returns the chronologically last point.
func (s *PriceSeries) Last() (PricePoint, bool) {
	if s.Len() == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Closes extracts closing prices in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i := range closes {
		closes[i] = s.Points[i].Close
	}
	return closes
}

var errUnordered = errors.New("points must have strictly increasing dates")

// Validate checks ordering and field sanity.
func (s *PriceSeries) Validate() error {
	for i, p := range s.Points {
		if p.Open <= 0 || p.High <= 0 || p.Low <= 0 || p.Close <= 0 {
			return fmt.Errorf("point %d (%s): prices must be positive", i, p.Day())
		}
		if p.Volume < 0 {
			return fmt.Errorf("point %d (%s): negative volume", i, p.Day())
		}
		if i > 0 && !s.Points[i-1].Date.Before(p.Date) {
			return fmt.Errorf("point %d (%s): %w", i, p.Day(), errUnordered)
		}
	}
	return nil
}
