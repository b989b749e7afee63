package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WebflowFileConfig holds Webflow identifiers from the config file. The
// jurisdiction map ties a jurisdiction code to the Webflow ItemRef of the
// matching option in the CMS collection.
type WebflowFileConfig struct {
	CollectionID  string            `yaml:"collection_id"`
	SiteID        string            `yaml:"site_id"`
	Jurisdictions map[string]string `yaml:"jurisdictions"`
}

// FileConfig represents the structure of ~/.billforge/config.yaml.
type FileConfig struct {
	Webflow WebflowFileConfig `yaml:"webflow"`
}

// LoadConfigFile loads configuration from ~/.billforge/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return loadConfigFileFrom(filepath.Join(homeDir, ".billforge", "config.yaml"))
}

func loadConfigFileFrom(configPath string) (*FileConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
