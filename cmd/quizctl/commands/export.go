package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/avelinsk/quizflow/internal/cli"
	"github.com/avelinsk/quizflow/internal/client"
	"github.com/avelinsk/quizflow/internal/seed"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <slug>",
	Short: "Export a quiz to a file",
	Long: `Export one quiz and its questions to a YAML or JSON file in the
seed-file format, suitable for re-importing.

Examples:
  quizctl export focus-check --output quiz.yaml
  quizctl export focus-check --format json --output quiz.json
  quizctl export focus-check > backup.yaml`,
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

		entry := seed.Entry{Quiz: content.Quiz, Questions: content.Questions}

		// Rules and results sit behind the admin key; without one the
		// export still carries the public content.
		if cfg.APIKey != "" {
			if entry.Rules, err = c.GetRules(ctx, slug); err != nil {
				return fmt.Errorf("failed to get rules: %w", err)
			}
			if entry.Results, err = c.GetResults(ctx, slug); err != nil {
				return fmt.Errorf("failed to get results: %w", err)
			}
		}

		exportData := seed.File{Quizzes: []seed.Entry{entry}}

		var output *os.File
		if exportOutput == "" || exportOutput == "-" {
			output = os.Stdout
		} else {
			output, err = os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer output.Close()
		}

		switch format {
		case "json":
			encoder := json.NewEncoder(output)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(exportData); err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}
		case "yaml", "table":
			// Default to YAML for export
			encoder := yaml.NewEncoder(output)
			defer encoder.Close()
			encoder.SetIndent(2)
			if err := encoder.Encode(exportData); err != nil {
				return fmt.Errorf("failed to encode YAML: %w", err)
			}
		default:
			return fmt.Errorf("unsupported export format: %s", format)
		}

		if exportOutput != "" && exportOutput != "-" && !quiet {
			fmt.Fprintf(os.Stderr, "Successfully exported quiz '%s' to %s\n", slug, exportOutput)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}
