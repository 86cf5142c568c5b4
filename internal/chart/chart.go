// Package chart turns a price series and its indicators into declarative
// chart specs. The specs carry no renderer types; the dashboard page maps
// them onto plotly traces.
package chart

import (
	"StockLens/internal/model"
)

// Kind tags a chart variant.
type Kind string

const (
	KindCandlestick Kind = "candlestick"
	KindBar         Kind = "bar"
	KindLine        Kind = "line"
	KindGauge       Kind = "gauge"
)

// Chart is implemented by every chart variant.
type Chart interface {
	ChartKind() Kind
}

// Layout carries the presentation settings shared by all variants.
type Layout struct {
	Title          string      `json:"title"`
	XAxisTitle     string      `json:"xaxis_title,omitempty"`
	YAxisTitle     string      `json:"yaxis_title,omitempty"`
	Template       string      `json:"template"`
	Height         int         `json:"height"`
	YRange         *[2]float64 `json:"yaxis_range,omitempty"`
	RangeSliderOff bool        `json:"rangeslider_hidden,omitempty"`
}

// Point is one (date, value) sample of a line.
type Point struct {
	Date  string  `json:"x"`
	Value float64 `json:"y"`
}

// LineSeries is a styled polyline. Undefined samples are omitted.
type LineSeries struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Width  int     `json:"width"`
	Points []Point `json:"points"`
}

// Candle is one OHLC box.
type Candle struct {
	Date  string  `json:"x"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

type CandlestickChart struct {
	Kind     Kind         `json:"kind"`
	Name     string       `json:"name"`
	Candles  []Candle     `json:"candles"`
	Overlays []LineSeries `json:"overlays"`
	Layout   Layout       `json:"layout"`
}

func (*CandlestickChart) ChartKind() Kind { return KindCandlestick }

// Bar is one colored column.
type Bar struct {
	Date  string  `json:"x"`
	Value float64 `json:"y"`
	Color string  `json:"color"`
}

type BarChart struct {
	Kind   Kind   `json:"kind"`
	Name   string `json:"name"`
	Bars   []Bar  `json:"bars"`
	Layout Layout `json:"layout"`
}

func (*BarChart) ChartKind() Kind { return KindBar }

// ReferenceLine is a horizontal line from From to To at Value.
type ReferenceLine struct {
	Value   float64 `json:"y"`
	From    string  `json:"x0"`
	To      string  `json:"x1"`
	Color   string  `json:"color"`
	Width   int     `json:"width"`
	Dash    string  `json:"dash"`
	Opacity float64 `json:"opacity"`
}

type LineChart struct {
	Kind       Kind            `json:"kind"`
	Series     []LineSeries    `json:"series"`
	References []ReferenceLine `json:"references"`
	Layout     Layout          `json:"layout"`
}

func (*LineChart) ChartKind() Kind { return KindLine }

// Band is a colored slice of the gauge axis.
type Band struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// Threshold marks a value on the gauge.
type Threshold struct {
	Value     float64 `json:"value"`
	Color     string  `json:"color"`
	Width     int     `json:"width"`
	Thickness float64 `json:"thickness"`
}

type GaugeChart struct {
	Kind Kind `json:"kind"`
	// Value is clamped to [Min, Max]; RawValue is the unclamped position.
	Value     float64   `json:"value"`
	RawValue  float64   `json:"raw_value"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	BarColor  string    `json:"bar_color"`
	Bands     []Band    `json:"bands"`
	Threshold Threshold `json:"threshold"`
	Layout    Layout    `json:"layout"`
}

func (*GaugeChart) ChartKind() Kind { return KindGauge }

// Set is the full chart output for one snapshot. Nil members are absent.
type Set struct {
	Price  *CandlestickChart `json:"price"`
	Volume *BarChart         `json:"volume"`
	RSI    *LineChart        `json:"rsi"`
	Gauge  *GaugeChart       `json:"gauge"`
}

// Available lists the kinds that were built.
func (s Set) Available() []Kind {
	var kinds []Kind
	for _, c := range s.charts() {
		if c != nil {
			kinds = append(kinds, c.ChartKind())
		}
	}
	return kinds
}

// charts returns the members as interfaces, with absent ones left as nil
// interfaces rather than typed nil pointers.
func (s Set) charts() []Chart {
	out := make([]Chart, 4)
	if s.Price != nil {
		out[0] = s.Price
	}
	if s.Volume != nil {
		out[1] = s.Volume
	}
	if s.RSI != nil {
		out[2] = s.RSI
	}
	if s.Gauge != nil {
		out[3] = s.Gauge
	}
	return out
}

func pointsOf(dates []string, vals []model.Value) []Point {
	var pts []Point
	for i, v := range vals {
		if i >= len(dates) {
			break
		}
		if v.Valid {
			pts = append(pts, Point{Date: dates[i], Value: v.Value})
		}
	}
	return pts
}

func daysOf(series *model.PriceSeries) []string {
	days := make([]string, series.Len())
	for i := range days {
		days[i] = series.Points[i].Day()
	}
	return days
}
