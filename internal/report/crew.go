package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"

	"StockLens/internal/collector"
)

// ErrEmptyOutput is returned when an agent replies with no content.
var ErrEmptyOutput = errors.New("agent returned empty output")

type analysisResult struct {
	Symbol   string
	Analysis string
}

// Crew runs the analyst and the writer in sequence.
type Crew struct {
	runnable compose.Runnable[string, string]
}

// NewCrew compiles the two-stage report chain.
func NewCrew(ctx context.Context, analyst, writer Agent) (*Crew, error) {
	chain := compose.NewChain[string, string]()
	chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, symbol string) (analysisResult, error) {
		start := time.Now()
		msg, err := analyst.Generate(ctx, AnalysisMessages(symbol))
		if err != nil {
			return analysisResult{}, fmt.Errorf("analyst: %w", err)
		}
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			return analysisResult{}, fmt.Errorf("analyst: %w", ErrEmptyOutput)
		}
		log.Printf("[INFO] analyst finished %s in %s", symbol, time.Since(start).Round(time.Millisecond))
		return analysisResult{Symbol: symbol, Analysis: msg.Content}, nil
	}), compose.WithNodeName("analyst"))
	chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, in analysisResult) (string, error) {
		msg, err := writer.Generate(ctx, ReportMessages(in.Symbol, in.Analysis))
		if err != nil {
			return "", fmt.Errorf("writer: %w", err)
		}
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			return "", fmt.Errorf("writer: %w", ErrEmptyOutput)
		}
		return msg.Content, nil
	}), compose.WithNodeName("writer"))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile report chain: %w", err)
	}
	return &Crew{runnable: runnable}, nil
}

// Kickoff produces the markdown report for symbol.
func (c *Crew) Kickoff(ctx context.Context, symbol string) (string, error) {
	symbol = collector.NormalizeSymbol(symbol)
	if err := collector.ValidateSymbol(symbol); err != nil {
		return "", err
	}
	log.Printf("[INFO] report crew started for %s", symbol)
	out, err := c.runnable.Invoke(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("report %s: %w", symbol, err)
	}
	return out, nil
}

// ReportFileName is the download name for a report generated at t.
func ReportFileName(symbol string, t time.Time) string {
	return fmt.Sprintf("stock_analysis_%s_%s.md", collector.NormalizeSymbol(symbol), t.Format("20060102"))
}
