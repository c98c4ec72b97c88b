package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avelinsk/quizflow/internal/cli"
	"github.com/avelinsk/quizflow/internal/client"
)

var getCmd = &cobra.Command{
	Use:   "get <slug>",
	Short: "Get a quiz",
	Long: `Get one quiz with its question list.

Examples:
  quizctl get focus-check
  quizctl get focus-check --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

		cfg, err := cli.Resolve(baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(cfg.BaseURL, cfg.APIKey)

		ctx := context.Background()
		content, err := c.GetQuiz(ctx, slug)
		if err != nil {
			return fmt.Errorf("failed to get quiz: %w", err)
		}

		if !quiet {
			fmt.Printf("%s (%s)\n", content.Quiz.Title, content.Quiz.Slug)
			if content.Quiz.Description != "" {
				fmt.Println(content.Quiz.Description)
			}
			fmt.Println()
			return cli.PrintQuestions(content.Questions, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
