package report

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"StockLens/internal/collector"
	"StockLens/internal/model"
)

const StockDataToolName = "stock_data_tool"

type StockDataInput struct {
	Symbol string `json:"symbol"`
}

// StockDataOutput is what the analyst sees. Fetch failures are reported in
// Error so the agent can explain them instead of aborting the run.
type StockDataOutput struct {
	*model.StockFacts
	Error string `json:"error,omitempty"`
}

// NewStockDataTool exposes live stock facts to the analyst agent.
func NewStockDataTool(fetcher collector.Fetcher) tool.InvokableTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: StockDataToolName,
			Desc: "Fetches real-time stock data: latest trading session, 52-week high and low with dates, market cap, P/E ratio and dividend yield.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "The stock ticker symbol, e.g. AAPL",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input StockDataInput) (*StockDataOutput, error) {
			symbol := collector.NormalizeSymbol(input.Symbol)
			if err := collector.ValidateSymbol(symbol); err != nil {
				return &StockDataOutput{Error: err.Error()}, nil
			}
			facts, err := fetcher.FetchFacts(ctx, symbol)
			if err != nil {
				log.Printf("[WARN] %s for %s: %v", StockDataToolName, symbol, err)
				return &StockDataOutput{Error: fmt.Sprintf("Error fetching data for %s: %v", symbol, err)}, nil
			}
			return &StockDataOutput{StockFacts: facts}, nil
		},
	)
}
