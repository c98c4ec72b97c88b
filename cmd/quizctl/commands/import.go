package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avelinsk/quizflow/internal/cli"
	"github.com/avelinsk/quizflow/internal/client"
	"github.com/avelinsk/quizflow/internal/seed"
)

var (
	importDryRun bool
	importForce  bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import quizzes from a file",
	Long: `Import quiz definitions from a YAML file. The file uses the same
format as the server's seed file: each entry carries a quiz, its questions,
insight rules and result ranges.

Examples:
  quizctl import quizzes.yaml
  quizctl import quizzes.yaml --dry-run
  quizctl import quizzes.yaml --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		// Parse strictly up front: a dry run validates the whole file.
		f, err := seed.Parse(data)
		if err != nil {
			return fmt.Errorf("failed to parse file: %w", err)
		}
		if len(f.Quizzes) == 0 {
			return fmt.Errorf("no quizzes found in file")
		}

		if verbose {
			fmt.Printf("Found %d quiz(zes) to import\n", len(f.Quizzes))
		}

		if importDryRun {
			fmt.Println("Dry run mode - the following quizzes would be imported:")
			for _, entry := range f.Quizzes {
				fmt.Printf("  - %s (%d questions, %d rules, %d results)\n",
					entry.Quiz.Slug, len(entry.Questions), len(entry.Rules), len(entry.Results))
			}
			return nil
		}

		cfg, err := cli.Resolve(baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(cfg.BaseURL, cfg.APIKey)
		ctx := context.Background()

		successCount := 0
		errorCount := 0

		for _, entry := range f.Quizzes {
			if verbose {
				fmt.Printf("Importing quiz: %s\n", entry.Quiz.Slug)
			}

			err := c.UpsertQuiz(ctx, client.QuizContent{Quiz: entry.Quiz, Questions: entry.Questions})
			if err == nil && len(entry.Rules) > 0 {
				err = c.UpsertRules(ctx, entry.Quiz.Slug, entry.Rules)
			}
			if err == nil && len(entry.Results) > 0 {
				err = c.UpsertResults(ctx, entry.Quiz.Slug, entry.Results)
			}

			if err != nil {
				errorCount++
				fmt.Fprintf(os.Stderr, "Failed to import quiz '%s': %v\n", entry.Quiz.Slug, err)
				if !importForce {
					return fmt.Errorf("import failed, use --force to continue on errors")
				}
			} else {
				successCount++
			}
		}

		if !quiet {
			fmt.Printf("Import complete: %d succeeded, %d failed\n", successCount, errorCount)
		}

		if errorCount > 0 && !importForce {
			return fmt.Errorf("import completed with errors")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate without importing")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Continue on errors")
}
