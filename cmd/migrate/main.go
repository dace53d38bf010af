// cmd/migrate/main.go
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"card-optimizer/internal/catalog"
	"card-optimizer/internal/config"
	"card-optimizer/internal/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Usage: migrate [up|down|status|seed]. "up" also loads the demo catalog into an empty database.
func main() {
	cfg := config.MustLoad()
	if err := config.SetupLogging(os.Stdout, cfg.LogLevel, cfg.LogFormat); err != nil {
		slog.Error("Invalid logging configuration", "error", err)
		os.Exit(1)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx := context.Background()
	isPostgres := strings.HasPrefix(cfg.DBConn, "postgres://") || strings.HasPrefix(cfg.DBConn, "postgresql://")

	if command != "seed" {
		if !isPostgres {
			slog.Info("Schema is created on open for this backend, nothing to migrate", "database", cfg.DBConn)
		} else if err := migrate(ctx, cfg.DBConn, command); err != nil {
			slog.Error("Migration failed", "command", command, "error", err)
			os.Exit(1)
		}
	}

	if command == "up" || command == "seed" {
		if err := seed(ctx, cfg.DBConn); err != nil {
			slog.Error("Seeding failed", "error", err)
			os.Exit(1)
		}
	}
}

func migrate(ctx context.Context, conn, command string) error {
	db, err := sql.Open("pgx", conn)
	if err != nil {
		return err
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	migrationsDir := filepath.Join(wd, "migrations")

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	slog.Info("Running migrations", "command", command, "dir", migrationsDir)
	if err := goose.RunContext(ctx, command, db, migrationsDir); err != nil {
		return err
	}
	slog.Info("✅ Migrations done", "command", command)
	return nil
}

func seed(ctx context.Context, conn string) error {
	store, err := storage.Open(ctx, conn)
	if err != nil {
		return err
	}
	defer store.Close()

	seeded, err := storage.Seed(ctx, store, catalog.DemoCards(), catalog.DemoPurchases())
	if err != nil {
		return err
	}
	if seeded {
		slog.Info("✅ Demo catalog loaded")
	} else {
		slog.Info("Catalog already populated, skipping seed")
	}
	return nil
}
