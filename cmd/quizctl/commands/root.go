package commands

import (
	"github.com/spf13/cobra"

	"github.com/avelinsk/quizflow/internal/cli"
)

var (
	// Global flags
	baseURL string
	apiKey  string
	format  string
	quiet   bool
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quizctl",
	Short: "CLI tool for managing quiz content",
	Long: `Quizctl is a command-line tool for managing quiz content in the quizflow service.

It provides commands for listing and inspecting quizzes, and for importing
and exporting quiz definitions (questions, insight rules and result ranges).
The target service and admin key come from --base-url/--api-key flags,
QUIZFLOW_BASE_URL/QUIZFLOW_API_KEY, or ~/.quizflow/config.yaml.

Examples:
  quizctl list
  quizctl get focus-check
  quizctl export focus-check --output quiz.yaml
  quizctl import quizzes.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A format saved in the config file applies when the flag is
		// left at its default.
		if cmd.Flags().Changed("format") {
			return nil
		}
		s, err := cli.LoadSettings()
		if err != nil {
			return err
		}
		if s.Format != "" {
			format = s.Format
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the quizflow API")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for authentication")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}
