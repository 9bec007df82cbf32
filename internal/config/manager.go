// Package config handles the user's persistent configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds persistent preferences. Values set here take precedence over
// environment variables so a saved setup survives a stale shell.
type Config struct {
	LLMProvider  string `json:"llm_provider,omitempty"`  // groq, openai, anthropic, ollama
	APIKey       string `json:"api_key,omitempty"`       // key for the selected provider
	Model        string `json:"model,omitempty"`         // classifier model name
	BaseURL      string `json:"base_url,omitempty"`      // optional API base URL override
	DataDir      string `json:"data_dir,omitempty"`      // knowledge-base data directory
	StoreDir     string `json:"store_dir,omitempty"`     // conversation/user store directory
	StoreBackend string `json:"store_backend,omitempty"` // file (default) or sqlite
}

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}

	return &Manager{
		configDir: filepath.Join(configDir, "admitdesk"),
	}, nil
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration from disk.
// If the file does not exist, it returns an empty Config and no error.
func (m *Manager) Load() (*Config, error) {
	path := m.GetConfigPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to disk with restricted permissions (0600);
// the file may contain an API key.
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.GetConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}

// ApplyToEnv exports config values as the environment variables the provider
// factory reads. Explicit config wins over whatever is already in the shell.
func (cfg *Config) ApplyToEnv() {
	if cfg.LLMProvider != "" {
		os.Setenv("LLM_PROVIDER", cfg.LLMProvider)
	}
	if cfg.APIKey == "" {
		return
	}

	switch cfg.LLMProvider {
	case "groq":
		os.Setenv("GROQ_API_KEY", cfg.APIKey)
		if cfg.Model != "" {
			os.Setenv("GROQ_MODEL", cfg.Model)
		}
		if cfg.BaseURL != "" {
			os.Setenv("GROQ_BASE_URL", cfg.BaseURL)
		}
	case "openai":
		os.Setenv("OPENAI_API_KEY", cfg.APIKey)
		if cfg.Model != "" {
			os.Setenv("OPENAI_MODEL", cfg.Model)
		}
		if cfg.BaseURL != "" {
			os.Setenv("OPENAI_BASE_URL", cfg.BaseURL)
		}
	case "anthropic":
		os.Setenv("ANTHROPIC_API_KEY", cfg.APIKey)
		if cfg.Model != "" {
			os.Setenv("ANTHROPIC_MODEL", cfg.Model)
		}
	}
}
