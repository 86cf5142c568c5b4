package model

// TradingSession is the most recent session's headline numbers.
type TradingSession struct {
	Date      string  `json:"date"`
	Price     float64 `json:"price"`
	Volume    int64   `json:"volume"`
	ChangePct float64 `json:"change_pct"` // open -> close
}

// DatedPrice pairs a price with the day it was observed.
type DatedPrice struct {
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

// StockFacts is the live data the analyst agent reasons over.
// Zero-valued provider fields mean the provider did not report them.
type StockFacts struct {
	Symbol        string         `json:"symbol"`
	CompanyName   string         `json:"company_name"`
	Currency      string         `json:"currency,omitempty"`
	LatestTrading TradingSession `json:"latest_trading_data"`
	High52w       DatedPrice     `json:"52_week_high"`
	Low52w        DatedPrice     `json:"52_week_low"`
	MarketCap     int64          `json:"market_cap,omitempty"`
	ForwardPE     float64        `json:"pe_ratio,omitempty"`
	DividendYield float64        `json:"dividend_yield,omitempty"`
	MarketState   string         `json:"market_state,omitempty"`
	Source        string         `json:"source"`
}
