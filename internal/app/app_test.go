package app

import (
	"context"
	"testing"
	"time"

	"card-optimizer/internal/catalog"
	"card-optimizer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOffline(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{
		DBConn:        "memory://",
		ClaudeAPIKey:  "sk-ignored",
		BraveAPIKey:   "ignored",
		LLMTimeout:    time.Second,
		SearchTimeout: time.Second,
	}

	a, err := Build(ctx, cfg, Options{Offline: true, SeedDemo: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	cards, err := a.Service.Cards(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, len(catalog.DemoCards()))

	h := a.Service.Health()
	assert.False(t, h.APIKeysConfigured["claude"])
	assert.False(t, h.APIKeysConfigured["brave"])

	resp := a.Service.Optimize(ctx, "$45 groceries at Whole Foods")
	assert.False(t, resp.Outcome.IsFallback())
	require.NotNil(t, resp.Recommendation.BestOverall)
}

func TestBuildWithKeys(t *testing.T) {
	cfg := config.Config{DBConn: "memory://", ClaudeAPIKey: "sk-test", BraveAPIKey: "brave-test"}

	a, err := Build(context.Background(), cfg, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	h := a.Service.Health()
	assert.True(t, h.APIKeysConfigured["claude"])
	assert.True(t, h.APIKeysConfigured["brave"])
}

func TestBuildBadDatabaseURL(t *testing.T) {
	_, err := Build(context.Background(), config.Config{DBConn: "mysql://nope"}, Options{})
	assert.Error(t, err)
}
