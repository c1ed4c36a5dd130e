package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Environment:   "development",
		LogLevel:      "info",
		DatabaseURL:   "postgres://localhost:5432/prp",
		YouTubeAPIKey: "yt-key",
		GeminiAPIKey:  "gemini-key",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid without notion",
			mutate: func(c *Config) {},
		},
		{
			name: "valid with notion",
			mutate: func(c *Config) {
				c.NotionToken = "secret"
				c.NotionDatabaseID = "db-id"
			},
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.DatabaseURL = "" },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing youtube key",
			mutate:  func(c *Config) { c.YouTubeAPIKey = "  " },
			wantErr: "YOUTUBE_API_KEY",
		},
		{
			name:    "missing gemini key",
			mutate:  func(c *Config) { c.GeminiAPIKey = "" },
			wantErr: "GEMINI_API_KEY",
		},
		{
			name: "notion token without database id",
			mutate: func(c *Config) {
				c.NotionToken = "secret"
			},
			wantErr: "NOTION_DATABASE_ID",
		},
		{
			name: "all required missing lists every field",
			mutate: func(c *Config) {
				c.DatabaseURL = ""
				c.YouTubeAPIKey = ""
				c.GeminiAPIKey = ""
			},
			wantErr: "DATABASE_URL, YOUTUBE_API_KEY, GEMINI_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/prp")
	t.Setenv("YOUTUBE_API_KEY", "yt")
	t.Setenv("GEMINI_API_KEY", "gm")
	t.Setenv("ALLOWED_USERS", "alice,bob")
	t.Setenv("MCP_USERNAME", "alice")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/prp", cfg.DatabaseURL)
	assert.Equal(t, "alice,bob", cfg.AllowedUsers)
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.Development())
	assert.False(t, cfg.NotionEnabled())
	require.NoError(t, cfg.Validate())
}

func TestNotionEnabled(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.NotionEnabled())
	cfg.NotionToken = " "
	assert.False(t, cfg.NotionEnabled())
	cfg.NotionToken = "secret"
	assert.True(t, cfg.NotionEnabled())
}
