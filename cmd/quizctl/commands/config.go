package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avelinsk/quizflow/internal/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage the quizctl configuration file at ~/.quizflow/config.yaml.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long: `Create a default configuration file.

Example:
  quizctl config init`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.InitSettings(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		path, _ := cli.ConfigPath()
		fmt.Printf("Configuration file created at: %s\n", path)
		fmt.Println("\nSet the service URL and admin key with:")
		fmt.Println("  quizctl config set base_url http://localhost:8080")
		fmt.Println("  quizctl config set api_key <key>")

		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the current configuration",
	Long: `Display the current configuration with the API key masked.

Example:
  quizctl config list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Printf("base_url: %s\n", s.BaseURL)
		fmt.Printf("api_key:  %s\n", maskKey(s.APIKey))
		if s.Format != "" {
			fmt.Printf("format:   %s\n", s.Format)
		}

		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Print one configuration value.

Examples:
  quizctl config get base_url
  quizctl config get api_key`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		switch args[0] {
		case "base_url":
			fmt.Println(s.BaseURL)
		case "api_key":
			fmt.Println(s.APIKey)
		case "format":
			fmt.Println(s.Format)
		default:
			return fmt.Errorf("unknown key '%s', valid keys: base_url, api_key, format", args[0])
		}

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set one configuration value and save the file.

Examples:
  quizctl config set base_url http://localhost:8080
  quizctl config set api_key my-secret-key
  quizctl config set format yaml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		key, value := args[0], args[1]
		switch key {
		case "base_url":
			s.BaseURL = value
		case "api_key":
			s.APIKey = value
		case "format":
			if value != "table" && value != "json" && value != "yaml" {
				return fmt.Errorf("invalid format '%s', valid formats: table, json, yaml", value)
			}
			s.Format = value
		default:
			return fmt.Errorf("unknown key '%s', valid keys: base_url, api_key, format", key)
		}

		if err := cli.SaveSettings(s); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Successfully set %s\n", key)

		return nil
	},
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) > 4 {
		return key[:4] + "***"
	}
	return "***"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
