package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"StockLens/internal/recorder"
	"StockLens/internal/report"
)

// newAnalyzeCmd creates the analyze command
func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		withReport bool
		outDir     string
	)
	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Analyze one stock symbol in the terminal",
		Long: `Fetch one year of daily prices for SYMBOL and print the indicator summary.
With --report the LLM crew also writes a markdown report into --out.
Example: stocklens analyze AAPL --report --out reports`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var symbol string
			if len(args) == 1 {
				symbol = args[0]
			} else {
				s, err := PromptForSymbol()
				if err != nil {
					return err
				}
				symbol = s
			}
			return runAnalyze(cmd, a, symbol, withReport, outDir)
		},
	}

	cmd.Flags().BoolVar(&withReport, "report", false, "Also generate the LLM investment report")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory for the report file")

	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, symbol string, withReport bool, outDir string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	col, err := newCollector(a.cfg, nil)
	if err != nil {
		return err
	}
	snap, err := col.Collect(ctx, symbol)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, RenderSummary(snap))

	var reportLen int
	if withReport {
		crew, err := newCrew(ctx, a.cfg, col.Fetcher)
		if err != nil {
			return err
		}
		if crew == nil {
			return fmt.Errorf("--report needs an LLM api key (SAMBANOVA_API_KEY or LLM_API_KEY)")
		}
		md, err := crew.Kickoff(ctx, snap.Symbol)
		if err != nil {
			return err
		}
		path, err := writeReport(outDir, snap.Symbol, md, time.Now())
		if err != nil {
			return err
		}
		reportLen = len(md)
		fmt.Fprintf(out, "Report written to %s\n", path)
	}

	rec := recorder.Open(a.cfg.Database.SQLitePath)
	defer rec.Close()
	if err := rec.RecordAnalysis(ctx, recorder.NewAnalysisRecord(snap, recorder.SourceCLI, reportLen)); err != nil {
		log.Printf("[ERROR] record analysis: %v", err)
	}
	return nil
}

func writeReport(dir, symbol, md string, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, report.ReportFileName(symbol, at))
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
