package cli

import (
	"github.com/AlecAivazis/survey/v2"

	"StockLens/internal/collector"
)

// PromptForSymbol prompts the user to enter a stock ticker symbol
func PromptForSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "Enter the stock ticker symbol (e.g., AAPL, MSFT, GOOGL):",
		Help:    "Any symbol Yahoo Finance knows, including indices such as ^GSPC",
		Default: "AAPL",
	}

	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		return collector.ValidateSymbol(collector.NormalizeSymbol(str))
	}))
	if err != nil {
		return "", err
	}
	return collector.NormalizeSymbol(symbol), nil
}
