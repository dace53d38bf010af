package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"card-optimizer/internal/storage/memory"
	"card-optimizer/internal/storage/postgres"
	"card-optimizer/internal/storage/sqlite"

	"github.com/sethvargo/go-retry"
)

const (
	connectAttempts = 5
	connectBackoff  = 500 * time.Millisecond
)

// Open picks a backend from url: "memory://", "sqlite://<path>", or a postgres URL.
// Connecting is retried with exponential backoff so the API can start before its database.
func Open(ctx context.Context, url string) (Storage, error) {
	switch {
	case url == "" || strings.HasPrefix(url, "memory://"):
		slog.Info("Using in-memory storage")
		return memory.New(), nil

	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		slog.Info("Using SQLite storage", "path", path)
		return sqlite.New(ctx, path)

	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		var store Storage
		backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewExponential(connectBackoff))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			pool, err := postgres.Connect(ctx, url)
			if err != nil {
				slog.Warn("Database not ready, retrying", "error", err)
				return retry.RetryableError(err)
			}
			store = postgres.NewStorage(pool)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		slog.Info("Connected to PostgreSQL")
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported database url %q", url)
	}
}
