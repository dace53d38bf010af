// Package sqlite is the file-backed store used for local runs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"card-optimizer/internal/domain"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS cards (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	issuer           TEXT NOT NULL DEFAULT '',
	annual_fee       TEXT NOT NULL DEFAULT '0',
	reward_structure TEXT NOT NULL,
	is_active        INTEGER NOT NULL DEFAULT 1,
	created_at       TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id                    TEXT PRIMARY KEY,
	merchant              TEXT NOT NULL,
	amount                TEXT NOT NULL,
	category              TEXT NOT NULL,
	recommended_card_id   TEXT NOT NULL DEFAULT '',
	recommended_card_name TEXT NOT NULL DEFAULT '',
	actual_card_id        TEXT NOT NULL DEFAULT '',
	reward_earned         TEXT NOT NULL DEFAULT '0',
	date                  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (date DESC);
`

type Storage struct {
	db *sql.DB
}

// New opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func New(ctx context.Context, path string) (*Storage, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// === CardStorage ===

const cardColumns = `id, name, issuer, annual_fee, reward_structure, is_active, created_at`

func (s *Storage) ListActiveCards(ctx context.Context) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE is_active = 1 ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

func (s *Storage) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	card, err := scanCard(s.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return card, err
}

func (s *Storage) UpsertCard(ctx context.Context, card domain.Card) error {
	structure, err := json.Marshal(card.RewardStructure)
	if err != nil {
		return fmt.Errorf("encode reward structure: %w", err)
	}
	createdAt := card.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cards (id, name, issuer, annual_fee, reward_structure, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			issuer = excluded.issuer,
			annual_fee = excluded.annual_fee,
			reward_structure = excluded.reward_structure,
			is_active = excluded.is_active
	`, card.ID, card.Name, card.Issuer, card.AnnualFee.String(), string(structure), card.IsActive, createdAt)
	if err != nil {
		return fmt.Errorf("upsert card %q: %w", card.ID, err)
	}
	return nil
}

func (s *Storage) DeactivateCard(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE cards SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate card: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Storage) CountCards(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (*domain.Card, error) {
	var (
		card           domain.Card
		fee, structure string
	)
	if err := row.Scan(&card.ID, &card.Name, &card.Issuer, &fee, &structure, &card.IsActive, &card.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan card: %w", err)
	}

	var err error
	if card.AnnualFee, err = decimal.NewFromString(fee); err != nil {
		return nil, fmt.Errorf("card %q annual fee: %w", card.ID, err)
	}
	card.RewardStructure = &domain.RewardStructure{}
	if err := json.Unmarshal([]byte(structure), card.RewardStructure); err != nil {
		slog.Warn("Unreadable reward structure", "card_id", card.ID, "error", err)
		card.RewardStructure = nil
	}
	return &card, nil
}

// === TransactionStorage ===

func (s *Storage) SaveTransaction(ctx context.Context, rec domain.PurchaseRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("transaction id cannot be empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, merchant, amount, category, recommended_card_id, recommended_card_name, actual_card_id, reward_earned, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Merchant, rec.Amount.String(), rec.Category, rec.RecommendedCardID, rec.RecommendedCardName,
		rec.ActualCardID, rec.RewardEarned.String(), rec.Date.UTC())
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

func (s *Storage) ListTransactions(ctx context.Context, limit int) ([]domain.PurchaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, merchant, amount, category, recommended_card_id, recommended_card_name, actual_card_id, reward_earned, date
		FROM transactions
		ORDER BY date DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.PurchaseRecord
	for rows.Next() {
		var (
			rec            domain.PurchaseRecord
			amount, reward string
		)
		if err := rows.Scan(&rec.ID, &rec.Merchant, &amount, &rec.Category, &rec.RecommendedCardID,
			&rec.RecommendedCardName, &rec.ActualCardID, &reward, &rec.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s amount: %w", rec.ID, err)
		}
		if rec.RewardEarned, err = decimal.NewFromString(reward); err != nil {
			return nil, fmt.Errorf("transaction %s reward: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
