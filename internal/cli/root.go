package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"StockLens/internal/config"
)

const defaultConfigPath = "configs/config.yaml"

// app is the state shared by all subcommands once the config is loaded.
type app struct {
	cfgPath string
	cfg     *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd(version string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "stocklens",
		Short: "StockLens - AI stock analysis dashboard",
		Long: `StockLens fetches a year of daily prices, computes moving averages, RSI and
the 52-week range position, and asks a two-agent LLM crew for an investment report.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			path := a.cfgPath
			if !cmd.Flags().Changed("config") {
				if v := os.Getenv("CONFIG_PATH"); v != "" {
					path = v
				}
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", defaultConfigPath, "Configuration file path")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

// newVersionCmd creates the version command
func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "StockLens %s\n", version)
		},
	}
}
