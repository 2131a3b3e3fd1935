// Package config manages backtail's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the backtail configuration
type Config struct {
	TailLines       int    `yaml:"tail_lines"`
	ChunkSize       int    `yaml:"chunk_size"`
	HistoryLimit    int    `yaml:"history_limit"`
	HistoryLocation string `yaml:"history_location,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TailLines:    10,
		ChunkSize:    4096,
		HistoryLimit: 100,
	}
}

// ConfigManager manages configuration persistence
type ConfigManager struct {
	configPath string
}

// NewConfigManager creates a configuration manager rooted at the default
// config path under the user's home directory.
func NewConfigManager() (*ConfigManager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".config", "backtail", "config.yaml")
	return &ConfigManager{configPath: configPath}, nil
}

// NewConfigManagerWithPath creates a config manager with custom config path
func NewConfigManagerWithPath(configPath string) *ConfigManager {
	return &ConfigManager{configPath: configPath}
}

// Load reads the configuration from file, or returns defaults if the file
// doesn't exist.
func (cm *ConfigManager) Load() (*Config, error) {
	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cm.validateAndSetDefaults(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save writes the configuration to file
func (cm *ConfigManager) Save(config *Config) error {
	if err := cm.validateAndSetDefaults(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateAndSetDefaults validates configuration and fills in defaults for
// missing fields.
func (cm *ConfigManager) validateAndSetDefaults(config *Config) error {
	if config.TailLines == 0 {
		config.TailLines = 10
	}
	if config.ChunkSize == 0 {
		config.ChunkSize = 4096
	}
	if config.HistoryLimit == 0 {
		config.HistoryLimit = 100
	}

	if config.TailLines < 1 || config.TailLines > 100000 {
		return fmt.Errorf("tail_lines must be between 1 and 100000")
	}
	if config.ChunkSize < 16 {
		return fmt.Errorf("chunk_size must be at least 16 bytes")
	}
	if config.HistoryLimit < 1 || config.HistoryLimit > 1000 {
		return fmt.Errorf("history_limit must be between 1 and 1000")
	}
	return nil
}

// GetConfigPath returns the path to the config file
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// Update modifies a specific configuration value
func (cm *ConfigManager) Update(key, value string) error {
	config, err := cm.Load()
	if err != nil {
		return err
	}

	switch key {
	case "tail-lines":
		var lines int
		if _, err := fmt.Sscanf(value, "%d", &lines); err != nil {
			return fmt.Errorf("invalid integer value for tail-lines: %s", value)
		}
		config.TailLines = lines
	case "chunk-size":
		var chunk int
		if _, err := fmt.Sscanf(value, "%d", &chunk); err != nil {
			return fmt.Errorf("invalid integer value for chunk-size: %s", value)
		}
		config.ChunkSize = chunk
	case "history-limit":
		var limit int
		if _, err := fmt.Sscanf(value, "%d", &limit); err != nil {
			return fmt.Errorf("invalid integer value for history-limit: %s", value)
		}
		config.HistoryLimit = limit
	case "history-location":
		config.HistoryLocation = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	return cm.Save(config)
}

// Get returns the value for a specific configuration key
func (cm *ConfigManager) Get(key string) (string, error) {
	config, err := cm.Load()
	if err != nil {
		return "", err
	}

	switch key {
	case "tail-lines":
		return fmt.Sprintf("%d", config.TailLines), nil
	case "chunk-size":
		return fmt.Sprintf("%d", config.ChunkSize), nil
	case "history-limit":
		return fmt.Sprintf("%d", config.HistoryLimit), nil
	case "history-location":
		if config.HistoryLocation == "" {
			return "[default]", nil
		}
		return config.HistoryLocation, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// List returns all configuration keys and values
func (cm *ConfigManager) List() (map[string]string, error) {
	config, err := cm.Load()
	if err != nil {
		return nil, err
	}

	result := map[string]string{
		"tail-lines":       fmt.Sprintf("%d", config.TailLines),
		"chunk-size":       fmt.Sprintf("%d", config.ChunkSize),
		"history-limit":    fmt.Sprintf("%d", config.HistoryLimit),
		"history-location": config.HistoryLocation,
	}

	if result["history-location"] == "" {
		result["history-location"] = "[default]"
	}

	return result, nil
}
