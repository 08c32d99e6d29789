package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err, "A missing config file should not be an error")

	assert.Equal(t, "", cfg.APIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.Equal(t, "./badger_data", cfg.BadgerDBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_File(t *testing.T) {
	dir := writeConfig(t, `
API_BASE_URL: http://localhost:3333
API_TIMEOUT: 5s
TELEGRAM_BOT_TOKEN: file-token
LOG_LEVEL: DEBUG
LOG_FORMAT: text
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3333", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, "file-token", cfg.TelegramBotToken)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.RequireBot())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, "API_BASE_URL: http://localhost:3333\n")
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("API_TIMEOUT", "250ms")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.APITimeout)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := writeConfig(t, "API_BASE_URL: [unterminated\n")

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{APIBaseURL: "http://localhost:3333", LogLevel: "info", LogFormat: "json"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.APIBaseURL = "" }},
		{"relative base url", func(c *Config) { c.APIBaseURL = "/api" }},
		{"wrong scheme", func(c *Config) { c.APIBaseURL = "ftp://host" }},
		{"negative timeout", func(c *Config) { c.APITimeout = -time.Second }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_RequireBot(t *testing.T) {
	assert.ErrorIs(t, Config{BadgerDBPath: "./data"}.RequireBot(), ErrMissingBotToken)
	assert.Error(t, Config{TelegramBotToken: "t"}.RequireBot())
	assert.NoError(t, Config{TelegramBotToken: "t", BadgerDBPath: "./data"}.RequireBot())
}
