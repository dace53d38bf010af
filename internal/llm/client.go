// Package llm talks to the language model used for parsing queries and
// writing recommendations.
package llm

import (
	"context"
	"time"

	"card-optimizer/internal/domain"
)

const (
	DefaultModel   = "claude-3-5-haiku-latest"
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultTimeout = 30 * time.Second
)

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

// Client completes a single prompt and returns the model's text.
type Client interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// NewClient returns the Anthropic client for cfg, or domain.ErrNoAPIKey when no key is set.
func NewClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrNoAPIKey
	}
	return newAnthropicClient(cfg), nil
}
