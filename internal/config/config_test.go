package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "CLAUDE_API_KEY", "BRAVE_SEARCH_API_KEY", "LLM_TIMEOUT", "ADMIN_KEY"} {
		t.Setenv(k, "")
	}

	cfg := load(newViper())

	assert.Equal(t, ":8080", cfg.ServerPort)
	assert.Equal(t, "sqlite://data/cards.db", cfg.DBConn)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 8*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 10*time.Second, cfg.SearchTimeout)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.ClaudeModel)
	assert.False(t, cfg.LLMEnabled())
	assert.False(t, cfg.SearchEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "10000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/cards")
	t.Setenv("CLAUDE_API_KEY", "sk-test")
	t.Setenv("BRAVE_SEARCH_API_KEY", "your_brave_search_api_key_here")
	t.Setenv("LLM_TIMEOUT", "3s")
	t.Setenv("SEARCH_TIMEOUT", "soon")
	t.Setenv("WEBHOOK_BASE_URL", "https://cards.example.com/")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := load(newViper())

	assert.Equal(t, ":10000", cfg.ServerPort)
	assert.Equal(t, "postgres://u:p@db:5432/cards", cfg.DBConn)
	assert.True(t, cfg.LLMEnabled())
	assert.False(t, cfg.SearchEnabled(), "placeholder key counts as unset")
	assert.Equal(t, 3*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 10*time.Second, cfg.SearchTimeout)
	assert.Equal(t, "https://cards.example.com", cfg.WebhookBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestSecret(t *testing.T) {
	assert.Equal(t, "", secret("your_claude_api_key_here"))
	assert.Equal(t, "", secret("  "))
	assert.Equal(t, "abc", secret(" abc "))
}

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogging(&buf, "warn", "json"))
	slog.Info("hidden")
	slog.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	assert.Error(t, SetupLogging(&buf, "loud", "text"))
	assert.Error(t, SetupLogging(&buf, "info", "xml"))
}
