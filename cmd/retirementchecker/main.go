package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lcasucciIT/azure-openai-retirement/internal/app"
	"github.com/lcasucciIT/azure-openai-retirement/internal/config"
	"github.com/lcasucciIT/azure-openai-retirement/internal/logging"
)

func main() {
	// Optional .env for local runs; CI supplies real env vars.
	_ = godotenv.Load()

	var (
		outputFormat   string
		outputPath     string
		subscriptionID string
		cliPath        string
		silent         bool
	)

	root := &cobra.Command{
		Use:   "retirementchecker",
		Short: "Check Azure OpenAI deployments against model retirement documentation",
		Long: "Scans Azure subscriptions for OpenAI/AIServices deployments and " +
			"cross-references each deployed model against Microsoft's published " +
			"model retirement dates.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if outputFormat != "" {
				cfg.Output.Format = outputFormat
			}
			if outputPath != "" {
				cfg.Output.Path = outputPath
			}
			if subscriptionID != "" {
				cfg.Azure.Subscriptions = []config.SubscriptionConfig{
					{ID: subscriptionID, Name: subscriptionID},
				}
			}
			if cliPath != "" {
				cfg.Azure.CLIPath = cliPath
			}
			if silent {
				cfg.Output.Silent = true
			}

			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}

			if err := application.Run(cmd.Context()); err != nil {
				logger.Error("scan failed", "error", err)
				return err
			}
			return nil
		},
	}

	root.Flags().StringVar(&outputFormat, "output-format", "", "report format: text, csv, or json")
	root.Flags().StringVar(&outputPath, "output-path", "", "custom file name for csv/json output")
	root.Flags().StringVar(&subscriptionID, "subscription-id", "", "run against a single subscription ID")
	root.Flags().StringVar(&cliPath, "cli-path", "", "override the Azure CLI path")
	root.Flags().BoolVar(&silent, "silent", false, "suppress report printout")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
