package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
)

const defaultMaxSteps = 12

// Agent produces one reply for a conversation.
type Agent interface {
	Generate(ctx context.Context, input []*schema.Message) (*schema.Message, error)
}

// AgentFunc adapts a function to Agent.
type AgentFunc func(ctx context.Context, input []*schema.Message) (*schema.Message, error)

func (f AgentFunc) Generate(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
	return f(ctx, input)
}

// NewAnalyst builds the ReAct analyst agent around the stock data tool.
func NewAnalyst(ctx context.Context, cm model.ToolCallingChatModel, tools []tool.BaseTool, maxSteps int) (Agent, error) {
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		MaxStep:          maxSteps,
		ToolCallingModel: cm,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: tools,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create analyst agent: %w", err)
	}
	return AgentFunc(func(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
		return agent.Generate(ctx, input)
	}), nil
}

// NewWriter turns a plain chat model into the report writer.
func NewWriter(cm model.BaseChatModel) Agent {
	return AgentFunc(func(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
		return cm.Generate(ctx, input)
	})
}

const analystPersona = `You are a Wall Street Financial Analyst.
Goal: conduct a comprehensive, data-driven analysis of {symbol} stock using real-time market data.
You are a seasoned analyst with 15+ years of experience in equity research, known for meticulous analysis and data-driven insights.
You ALWAYS base your analysis on real-time market data, never relying solely on pre-existing knowledge.
You are an expert at interpreting financial metrics, market trends and providing actionable insights.`

const analysisTask = `Analyze {symbol} stock using the stock_data_tool to fetch real-time data. Your analysis must include:

1. Latest Trading Information (HIGHEST PRIORITY)
   - Latest stock price with specific date
   - Percentage change
   - Trading volume
   - Market status (open/closed)
   - Highlight if this is from the most recent trading session

2. 52-Week Performance (CRITICAL)
   - 52-week high with exact date
   - 52-week low with exact date
   - Current price position relative to 52-week range
   - Calculate percentage from highs and lows

3. Financial Deep Dive
   - Market capitalization
   - P/E ratio and other key metrics
   - Dividend information (if applicable)

4. Technical Analysis
   - Recent price movements
   - Volume analysis
   - Key technical indicators

5. Market Context
   - Business summary
   - Key risk factors

IMPORTANT:
- ALWAYS use the stock_data_tool to fetch real-time data
- Begin your analysis with the latest price and 52-week data
- Include specific dates for all price points
- Calculate and show percentage changes
- Compare current metrics with historical trends

Expected output: a comprehensive analysis with real-time data, including all specified metrics and clear section breakdowns.`

const writerPersona = `You are a Financial Report Specialist.
Goal: transform detailed financial analysis into a professional, comprehensive investment report.
You are an expert financial writer with a track record of institutional-grade research reports.
You excel at presenting complex financial data in a clear, structured format while keeping reports accessible and actionable.`

const reportTask = `Transform the analysis below into a professional investment report for {symbol}. The report must:

1. Structure:
   - Begin with an executive summary
   - Use clear section headers
   - Include tables for data presentation
   - Add emoji indicators for trends (📈 📉)

2. Content Requirements:
   - Include timestamps for all data points
   - Present key metrics in tables
   - Use bullet points for key insights
   - Explain technical terms
   - Highlight potential risks

3. Sections:
   - Executive Summary
   - Market Position Overview
   - Financial Metrics Analysis
   - Technical Analysis
   - Risk Assessment
   - Future Outlook

IMPORTANT:
- Maintain professional tone
- Clearly state all data sources
- Include risk disclaimers
- Format in clean, readable markdown

Analysis:
{analysis}`

func render(tpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// AnalysisMessages builds the analyst conversation for symbol.
func AnalysisMessages(symbol string) []*schema.Message {
	vars := map[string]string{"symbol": symbol}
	return []*schema.Message{
		schema.SystemMessage(render(analystPersona, vars)),
		schema.UserMessage(render(analysisTask, vars)),
	}
}

// ReportMessages builds the writer conversation from the analyst output.
func ReportMessages(symbol, analysis string) []*schema.Message {
	vars := map[string]string{"symbol": symbol, "analysis": analysis}
	return []*schema.Message{
		schema.SystemMessage(writerPersona),
		schema.UserMessage(render(reportTask, vars)),
	}
}
