// internal/config/config.go
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort   string
	DBConn       string
	JWTSecret    string
	JWTExpiresIn time.Duration
	AdminKey     string

	ClaudeAPIKey  string
	ClaudeModel   string
	BraveAPIKey   string
	LLMTimeout    time.Duration
	SearchTimeout time.Duration

	TelegramToken  string
	WebhookBaseURL string

	LogLevel  string
	LogFormat string
}

// LLMEnabled reports whether a Claude key is configured.
func (c Config) LLMEnabled() bool { return c.ClaudeAPIKey != "" }

// SearchEnabled reports whether a Brave key is configured.
func (c Config) SearchEnabled() bool { return c.BraveAPIKey != "" }

// MustLoad reads .env (if present) and the environment. Missing values fall back to
// defaults that run the service locally against SQLite.
func MustLoad() Config {
	if err := godotenv.Load(); err == nil {
		slog.Debug(".env loaded")
	}
	return load(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "sqlite://data/cards.db")
	v.SetDefault("JWT_SECRET", "your-super-secret-jwt-key-change-in-prod")
	v.SetDefault("JWT_EXPIRES_IN", "24h")
	v.SetDefault("CLAUDE_MODEL", "claude-3-5-haiku-latest")
	v.SetDefault("LLM_TIMEOUT", "8s")
	v.SetDefault("SEARCH_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	return v
}

func load(v *viper.Viper) Config {
	return Config{
		ServerPort:   ":" + strings.TrimPrefix(v.GetString("PORT"), ":"),
		DBConn:       v.GetString("DATABASE_URL"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		JWTExpiresIn: duration(v, "JWT_EXPIRES_IN", 24*time.Hour),
		AdminKey:     secret(v.GetString("ADMIN_KEY")),

		ClaudeAPIKey:  secret(v.GetString("CLAUDE_API_KEY")),
		ClaudeModel:   v.GetString("CLAUDE_MODEL"),
		BraveAPIKey:   secret(v.GetString("BRAVE_SEARCH_API_KEY")),
		LLMTimeout:    duration(v, "LLM_TIMEOUT", 8*time.Second),
		SearchTimeout: duration(v, "SEARCH_TIMEOUT", 10*time.Second),

		TelegramToken:  secret(v.GetString("TELEGRAM_BOT_TOKEN")),
		WebhookBaseURL: strings.TrimRight(v.GetString("WEBHOOK_BASE_URL"), "/"),

		LogLevel:  strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat: strings.ToLower(v.GetString("LOG_FORMAT")),
	}
}

// duration keeps def when the value does not parse or is not positive.
func duration(v *viper.Viper, key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration, using default", "key", key, "value", v.GetString(key), "default", def)
		return def
	}
	return d
}

// secret treats template placeholders like "your_claude_api_key_here" as unset.
func secret(s string) string {
	s = strings.TrimSpace(s)
	l := strings.ToLower(s)
	if strings.HasPrefix(l, "your_") && strings.HasSuffix(l, "_here") {
		return ""
	}
	return s
}
