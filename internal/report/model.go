package report

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"

	"StockLens/internal/collector"
	"StockLens/internal/config"
)

// New wires the chat model, the stock data tool and both agents into a Crew.
func New(ctx context.Context, cfg config.LLMConfig, fetcher collector.Fetcher) (*Crew, error) {
	cm, err := NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	analyst, err := NewAnalyst(ctx, cm, []tool.BaseTool{NewStockDataTool(fetcher)}, cfg.MaxSteps)
	if err != nil {
		return nil, err
	}
	return NewCrew(ctx, analyst, NewWriter(cm))
}

// NewChatModel creates the tool-calling chat model both agents share.
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (model.ToolCallingChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is not configured")
	}
	switch cfg.Provider {
	case "deepseek":
		cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create DeepSeek model: %w", err)
		}
		return cm, nil
	case "", "openai":
		temperature := cfg.Temperature
		maxTokens := cfg.MaxTokens
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI-compatible model: %w", err)
		}
		return cm, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
