package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avelinsk/quizflow/internal/cli"
	"github.com/avelinsk/quizflow/internal/client"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect insight rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list <slug>",
	Short: "List a quiz's insight rules",
	Long: `List the insight rules of one quiz. Requires the admin API key.

Examples:
  quizctl rules list focus-check
  quizctl rules list focus-check --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

		cfg, err := cli.Resolve(baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(cfg.BaseURL, cfg.APIKey)

		ctx := context.Background()
		rules, err := c.GetRules(ctx, slug)
		if err != nil {
			return fmt.Errorf("failed to list rules: %w", err)
		}

		if !quiet {
			if len(rules) == 0 {
				fmt.Println("No rules found")
				return nil
			}
			return cli.PrintRules(rules, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
}
