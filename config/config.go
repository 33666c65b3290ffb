// Package config provides configuration loading for pagechat using TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Search provider settings
type Search struct {
	// QueryURL is the search endpoint; %s receives the encoded query.
	QueryURL string `json:"queryUrl"`
}

// HTTP fetching settings
type Fetcher struct {
	UserAgent      string `json:"userAgent"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
	ChromePath     string `json:"chromePath"`
}

// Assistant settings. The API key itself is environment-only and has no
// place in the config file.
type Assistant struct {
	Model    string `json:"model"`
	Endpoint string `json:"endpoint"`
}

// Session settings
type Session struct {
	RestoreSession    bool `json:"restoreSession"`
	RestoreTranscript bool `json:"restoreTranscript"`
}

// Config is the main configuration struct
type Config struct {
	Search    Search    `json:"search"`
	Fetcher   Fetcher   `json:"fetcher"`
	Assistant Assistant `json:"assistant"`
	Session   Session   `json:"session"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Search: Search{
			QueryURL: "https://www.google.com/search?q=%s",
		},
		Fetcher: Fetcher{
			UserAgent:      "PageChat/1.0 (page-aware assistant)",
			TimeoutSeconds: 30,
			ChromePath:     "",
		},
		Assistant: Assistant{
			Model:    "gemini-2.0-flash",
			Endpoint: "https://generativelanguage.googleapis.com/v1beta/models",
		},
		Session: Session{
			RestoreSession:    true,
			RestoreTranscript: true,
		},
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pagechat"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads configuration, layering user config on top of defaults.
// Returns the default config if no user config exists.
func Load() (*Config, error) {
	cfg := Default()

	configPath, err := ConfigPath()
	if err != nil {
		return cfg, nil // Return defaults if we can't determine path
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil // Return defaults if no user config
	}

	userCfg, err := loadFromTOML(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	return merge(cfg, userCfg), nil
}

// loadFromTOML loads a TOML config file and returns the config.
func loadFromTOML(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return &cfg, nil
}

// merge layers user config on top of defaults.
// Only non-zero values from user config override defaults.
func merge(defaults, user *Config) *Config {
	result := *defaults

	if user.Search.QueryURL != "" {
		result.Search.QueryURL = user.Search.QueryURL
	}

	if user.Fetcher.UserAgent != "" {
		result.Fetcher.UserAgent = user.Fetcher.UserAgent
	}
	if user.Fetcher.TimeoutSeconds != 0 {
		result.Fetcher.TimeoutSeconds = user.Fetcher.TimeoutSeconds
	}
	if user.Fetcher.ChromePath != "" {
		result.Fetcher.ChromePath = user.Fetcher.ChromePath
	}

	if user.Assistant.Model != "" {
		result.Assistant.Model = user.Assistant.Model
	}
	if user.Assistant.Endpoint != "" {
		result.Assistant.Endpoint = user.Assistant.Endpoint
	}

	return &result
}

// DefaultTOML returns the default configuration as a TOML string.
// Used for --init-config to generate a user config file.
func DefaultTOML() string {
	return `# pagechat configuration
# Save to ~/.config/pagechat/config.toml and customize
# Only include settings you want to change from defaults

# Search provider settings
[search]
queryUrl = "https://www.google.com/search?q=%s"   # %s receives the encoded query

# HTTP fetching settings
[fetcher]
userAgent = "PageChat/1.0 (page-aware assistant)"
timeoutSeconds = 30
chromePath = ""               # Path to Chrome/Chromium for JS rendering (empty = auto-detect)

# Assistant settings
# The API key comes from the GEMINI_API_KEY environment variable, never this file.
[assistant]
model = "gemini-2.0-flash"
endpoint = "https://generativelanguage.googleapis.com/v1beta/models"

# Session settings
[session]
restoreSession = true         # Restore last page on startup
restoreTranscript = true      # Restore conversation on startup
`
}
