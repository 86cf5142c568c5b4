package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"StockLens/internal/chart"
	"StockLens/internal/model"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(1, 2).
		Width(60)

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Width(18)

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	downStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	mutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF"))
)

func valueText(v model.Value) string {
	if !v.Valid {
		return mutedStyle.Render("insufficient data")
	}
	return fmt.Sprintf("%.2f", v.Value)
}

func rsiText(v model.Value) string {
	switch {
	case !v.Valid:
		return valueText(v)
	case v.Value >= chart.Overbought:
		return downStyle.Render(fmt.Sprintf("%.2f overbought", v.Value))
	case v.Value <= chart.Oversold:
		return upStyle.Render(fmt.Sprintf("%.2f oversold", v.Value))
	default:
		return fmt.Sprintf("%.2f", v.Value)
	}
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// RenderSummary draws the indicator panel for one snapshot.
func RenderSummary(snap *model.Snapshot) string {
	rows := []string{}
	if last, ok := snap.Series.Last(); ok {
		price := fmt.Sprintf("%.2f", last.Close)
		if last.Down() {
			price = downStyle.Render(price + " ▼")
		} else {
			price = upStyle.Render(price + " ▲")
		}
		rows = append(rows, row("Last close", price+mutedStyle.Render(" "+last.Day())))
	}
	if r := snap.Range; r != nil {
		rows = append(rows,
			row("52W range", fmt.Sprintf("%.2f - %.2f", r.RangeLow, r.RangeHigh)),
			row("Range position", positionText(r)),
		)
	}
	rows = append(rows,
		row("MA20", valueText(snap.LatestMA20())),
		row("MA50", valueText(snap.LatestMA50())),
		row("RSI(14)", rsiText(snap.LatestRSI())),
		row("Data points", fmt.Sprint(snap.Series.Len())),
	)

	title := titleStyle.Render(fmt.Sprintf("📈 %s", snap.Symbol))
	return lipgloss.JoinVertical(lipgloss.Left, title, panelStyle.Render(strings.Join(rows, "\n")))
}

func positionText(r *model.RangeStats) string {
	if r.Degenerate {
		return "50.0% " + mutedStyle.Render("(flat range)")
	}
	return fmt.Sprintf("%.1f%%", r.PositionPct)
}
