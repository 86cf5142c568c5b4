package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StockLens/internal/model"
)

// DigestEntry is the outcome of refreshing one watchlist symbol.
type DigestEntry struct {
	Symbol   string
	Snapshot *model.Snapshot
	Err      error
}

func fmtValue(v model.Value) string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v.Value)
}

// rsiZone labels an RSI reading against the 70/30 reference lines.
func rsiZone(v model.Value) string {
	switch {
	case !v.Valid:
		return ""
	case v.Value >= 70:
		return " 🔥 overbought"
	case v.Value <= 30:
		return " 🧊 oversold"
	default:
		return ""
	}
}

func trend(snap *model.Snapshot) string {
	last, ok := snap.Series.Last()
	ma := snap.LatestMA20()
	if !ok || !ma.Valid {
		return "➖"
	}
	if last.Close >= ma.Value {
		return "📈"
	}
	return "📉"
}

// FormatSnapshot formats one analysis as a Telegram HTML message.
func FormatSnapshot(snap *model.Snapshot) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> %s | %s\n\n", html.EscapeString(snap.Symbol), trend(snap), snap.FetchedAt.Format("2006-01-02 15:04")))

	if r := snap.Range; r != nil {
		b.WriteString(fmt.Sprintf("Price: %.2f\n", r.CurrentPrice))
		b.WriteString(fmt.Sprintf("52W range: %.2f – %.2f\n", r.RangeLow, r.RangeHigh))
		if r.Degenerate {
			b.WriteString("Position: 50% (flat range)\n")
		} else {
			b.WriteString(fmt.Sprintf("Position: %.1f%%\n", r.PositionPct))
		}
	}
	b.WriteString(fmt.Sprintf("MA20: %s | MA50: %s\n", fmtValue(snap.LatestMA20()), fmtValue(snap.LatestMA50())))
	rsi := snap.LatestRSI()
	b.WriteString(fmt.Sprintf("RSI(14): %s%s\n", fmtValue(rsi), rsiZone(rsi)))
	return b.String()
}

// FormatDigest formats a watchlist refresh into one message.
func FormatDigest(entries []DigestEntry, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗞 <b>StockLens watchlist</b> | %s\n\n", at.Format("2006-01-02")))

	failed := 0
	for _, e := range entries {
		if e.Err != nil || e.Snapshot == nil {
			failed++
			continue
		}
		snap := e.Snapshot
		line := fmt.Sprintf("%s <b>%s</b>", trend(snap), html.EscapeString(snap.Symbol))
		if r := snap.Range; r != nil {
			line += fmt.Sprintf(" %.2f (%.0f%% of 52W)", r.CurrentPrice, r.PositionPct)
		}
		rsi := snap.LatestRSI()
		line += fmt.Sprintf(" RSI %s%s", fmtValue(rsi), rsiZone(rsi))
		b.WriteString(line + "\n")
	}

	if failed > 0 {
		b.WriteString("\n❌ <b>Failed:</b>\n")
		for _, e := range entries {
			if e.Err != nil || e.Snapshot == nil {
				reason := "no data"
				if e.Err != nil {
					reason = e.Err.Error()
				}
				b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(e.Symbol), html.EscapeString(reason)))
			}
		}
	}
	return b.String()
}
