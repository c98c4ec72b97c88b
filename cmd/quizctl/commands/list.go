package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avelinsk/quizflow/internal/cli"
	"github.com/avelinsk/quizflow/internal/client"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all quizzes",
	Long: `List all published quizzes in the specified environment.

Examples:
  quizctl list
  quizctl list --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.Resolve(baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(cfg.BaseURL, cfg.APIKey)

		ctx := context.Background()
		quizzes, err := c.ListQuizzes(ctx)
		if err != nil {
			return fmt.Errorf("failed to list quizzes: %w", err)
		}

		if !quiet {
			if len(quizzes) == 0 {
				fmt.Println("No quizzes found")
				return nil
			}
			return cli.PrintQuizzes(quizzes, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
