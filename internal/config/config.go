// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting the server reads at startup. Values come
// from environment variables; a .env file loaded by the caller is the
// usual source during development.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL"`

	YouTubeAPIKey string `envconfig:"YOUTUBE_API_KEY"`
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`

	NotionToken      string `envconfig:"NOTION_TOKEN"`
	NotionDatabaseID string `envconfig:"NOTION_DATABASE_ID"`

	// AllowedUsers is a comma-separated list of usernames permitted to
	// invoke the tools. Username identifies the caller of this process.
	AllowedUsers string `envconfig:"ALLOWED_USERS"`
	Username     string `envconfig:"MCP_USERNAME"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &LoadError{Cause: err}
	}
	return &cfg, nil
}

// Validate checks that required settings are present and well formed.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.DatabaseURL) == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if strings.TrimSpace(c.YouTubeAPIKey) == "" {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	if c.NotionEnabled() && strings.TrimSpace(c.NotionDatabaseID) == "" {
		return &ValidationError{Fields: []string{"NOTION_DATABASE_ID"}}
	}
	return nil
}

// NotionEnabled reports whether a Notion integration token was supplied.
// Sync tools are registered only when this is true.
func (c *Config) NotionEnabled() bool {
	return strings.TrimSpace(c.NotionToken) != ""
}

// Development reports whether the server runs in development mode.
func (c *Config) Development() bool {
	return strings.EqualFold(c.Environment, "development")
}

// LoadError wraps a failure to read settings from the environment.
type LoadError struct {
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load configuration: %v", e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// ValidationError reports required settings that are missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Fields, ", "))
}
