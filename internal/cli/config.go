// Package cli holds shared plumbing for the quizctl command line tool:
// configuration resolution and terminal output helpers.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is where a locally running server listens.
const DefaultBaseURL = "http://localhost:8080"

// Settings is the quizctl configuration: one target service plus the
// admin key used by write commands and the preferred output format.
type Settings struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key,omitempty"`
	Format  string `yaml:"format,omitempty"`
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".quizflow", "config.yaml"), nil
}

// LoadSettings reads the config file. A missing file is not an error;
// it yields the defaults.
func LoadSettings() (*Settings, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{BaseURL: DefaultBaseURL}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &s, nil
}

// SaveSettings writes the config file, creating ~/.quizflow if needed.
// The file holds the admin key, so it is not group or world readable.
func SaveSettings(s *Settings) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Resolve layers the configuration sources for one invocation:
// flags > QUIZFLOW_BASE_URL / QUIZFLOW_API_KEY > config file > defaults.
// The API key may legitimately be empty; commands that hit admin
// endpoints are rejected by the service without one.
func Resolve(baseURLFlag, apiKeyFlag string) (*Settings, error) {
	s, err := LoadSettings()
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("QUIZFLOW_BASE_URL"); v != "" {
		s.BaseURL = v
	}
	if v := os.Getenv("QUIZFLOW_API_KEY"); v != "" {
		s.APIKey = v
	}
	if baseURLFlag != "" {
		s.BaseURL = baseURLFlag
	}
	if apiKeyFlag != "" {
		s.APIKey = apiKeyFlag
	}
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	return s, nil
}

// InitSettings creates a default config file.
func InitSettings() error {
	return SaveSettings(&Settings{BaseURL: DefaultBaseURL, Format: "table"})
}
