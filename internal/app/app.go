// Package app assembles the optimizer from configuration for the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"card-optimizer/internal/advisor"
	"card-optimizer/internal/catalog"
	"card-optimizer/internal/config"
	"card-optimizer/internal/domain"
	"card-optimizer/internal/llm"
	"card-optimizer/internal/parser"
	"card-optimizer/internal/search"
	"card-optimizer/internal/service"
	"card-optimizer/internal/storage"
)

type App struct {
	Store   storage.Storage
	Service *service.Optimizer
}

type Options struct {
	// Offline skips the language model and web search even when keys are configured.
	Offline bool
	// SeedDemo loads the demo catalog into an empty store.
	SeedDemo bool
}

func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	store, err := storage.Open(ctx, cfg.DBConn)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if opts.SeedDemo {
		seeded, err := storage.Seed(ctx, store, catalog.DemoCards(), catalog.DemoPurchases())
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
		if seeded {
			slog.Info("Demo catalog loaded")
		}
	}

	var client llm.Client
	var searcher search.Searcher
	if !opts.Offline {
		client = newLLM(cfg)
		searcher = newSearcher(cfg)
	}

	svc := service.New(
		store,
		parser.New(client, cfg.LLMTimeout),
		search.New(searcher, cfg.SearchTimeout),
		advisor.New(client, 0),
		client != nil,
	)
	return &App{Store: store, Service: svc}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}

func newLLM(cfg config.Config) llm.Client {
	client, err := llm.NewClient(llm.Config{APIKey: cfg.ClaudeAPIKey, Model: cfg.ClaudeModel})
	if errors.Is(err, domain.ErrNoAPIKey) {
		slog.Info("CLAUDE_API_KEY not set, using keyword parsing and built-in ranking")
		return nil
	}
	if err != nil {
		slog.Warn("Language model unavailable", "error", err)
		return nil
	}
	return client
}

// newSearcher returns a nil interface, never a typed nil, when search is off.
func newSearcher(cfg config.Config) search.Searcher {
	brave, err := search.NewBrave(cfg.BraveAPIKey, "")
	if err != nil {
		slog.Info("BRAVE_SEARCH_API_KEY not set, using built-in market data")
		return nil
	}
	return brave
}
