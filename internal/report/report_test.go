package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/model"
)

func reply(content string) Agent {
	return AgentFunc(func(_ context.Context, _ []*schema.Message) (*schema.Message, error) {
		return schema.AssistantMessage(content, nil), nil
	})
}

func TestKickoffRunsAgentsInOrder(t *testing.T) {
	var analystInput, writerInput []*schema.Message
	analyst := AgentFunc(func(_ context.Context, in []*schema.Message) (*schema.Message, error) {
		analystInput = in
		return schema.AssistantMessage("AAPL closed at 190.12 on 2024-06-03", nil), nil
	})
	writer := AgentFunc(func(_ context.Context, in []*schema.Message) (*schema.Message, error) {
		writerInput = in
		return schema.AssistantMessage("# Executive Summary\nAll good.", nil), nil
	})

	crew, err := NewCrew(context.Background(), analyst, writer)
	require.NoError(t, err)

	out, err := crew.Kickoff(context.Background(), " aapl")
	require.NoError(t, err)
	assert.Equal(t, "# Executive Summary\nAll good.", out)

	require.Len(t, analystInput, 2)
	assert.Equal(t, schema.System, analystInput[0].Role)
	assert.Contains(t, analystInput[1].Content, "Analyze AAPL stock using the stock_data_tool")

	require.Len(t, writerInput, 2)
	assert.Contains(t, writerInput[1].Content, "investment report for AAPL")
	assert.True(t, strings.HasSuffix(writerInput[1].Content, "AAPL closed at 190.12 on 2024-06-03"))
}

func TestKickoffEmptyAnalysisIsError(t *testing.T) {
	writerCalled := false
	writer := AgentFunc(func(_ context.Context, _ []*schema.Message) (*schema.Message, error) {
		writerCalled = true
		return schema.AssistantMessage("report", nil), nil
	})
	crew, err := NewCrew(context.Background(), reply("   "), writer)
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), "AAPL")
	assert.ErrorContains(t, err, ErrEmptyOutput.Error())
	assert.False(t, writerCalled)
}

func TestKickoffEmptyReportIsError(t *testing.T) {
	crew, err := NewCrew(context.Background(), reply("analysis"), reply(""))
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), "AAPL")
	assert.ErrorContains(t, err, ErrEmptyOutput.Error())
}

func TestKickoffPropagatesAgentError(t *testing.T) {
	failing := AgentFunc(func(_ context.Context, _ []*schema.Message) (*schema.Message, error) {
		return nil, errors.New("rate limited")
	})
	crew, err := NewCrew(context.Background(), failing, reply("report"))
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), "AAPL")
	assert.ErrorContains(t, err, "rate limited")
}

func TestKickoffRejectsInvalidSymbol(t *testing.T) {
	crew, err := NewCrew(context.Background(), reply("a"), reply("b"))
	require.NoError(t, err)

	_, err = crew.Kickoff(context.Background(), "")
	assert.Error(t, err)
}

func TestReportFileName(t *testing.T) {
	at := time.Date(2024, 6, 3, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "stock_analysis_AAPL_20240603.md", ReportFileName("aapl", at))
}

func TestStockDataTool(t *testing.T) {
	facts := &model.StockFacts{Symbol: "AAPL", CompanyName: "Apple Inc.", Currency: "USD"}
	tl := NewStockDataTool(&collector.MockFetcher{Facts: facts})

	info, err := tl.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StockDataToolName, info.Name)

	out, err := tl.InvokableRun(context.Background(), `{"symbol":"aapl"}`)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Apple Inc.", got["company_name"])
	assert.NotContains(t, got, "error")
}

func TestStockDataToolReportsFetchError(t *testing.T) {
	tl := NewStockDataTool(&collector.MockFetcher{Err: errors.New("upstream 503")})

	out, err := tl.InvokableRun(context.Background(), `{"symbol":"AAPL"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Error fetching data for AAPL")
	assert.Contains(t, out, "upstream 503")
}

func TestNewChatModelRequiresKey(t *testing.T) {
	_, err := NewChatModel(context.Background(), config.LLMConfig{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewChatModel(context.Background(), config.LLMConfig{Provider: "bogus", APIKey: "k"})
	assert.ErrorContains(t, err, "unknown llm provider")
}
