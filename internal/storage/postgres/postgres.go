// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"card-optimizer/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// Connect opens a pool and checks that the server answers.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func (s *Storage) Close() error {
	s.db.Close()
	return nil
}

// === CardStorage ===

const cardColumns = `id, name, issuer, annual_fee::text, reward_structure, is_active, created_at`

func (s *Storage) ListActiveCards(ctx context.Context) ([]domain.Card, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+cardColumns+`
		FROM cards
		WHERE is_active
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return cards, nil
}

func (s *Storage) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	card, err := scanCard(s.db.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
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

	_, err = s.db.Exec(ctx, `
		INSERT INTO cards (id, name, issuer, annual_fee, reward_structure, is_active, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			issuer = EXCLUDED.issuer,
			annual_fee = EXCLUDED.annual_fee,
			reward_structure = EXCLUDED.reward_structure,
			is_active = EXCLUDED.is_active
	`, card.ID, card.Name, card.Issuer, card.AnnualFee.String(), string(structure), card.IsActive, createdAt)
	if err != nil {
		return fmt.Errorf("upsert card %q: %w", card.ID, err)
	}
	slog.Debug("UpsertCard completed", "card_id", card.ID)
	return nil
}

func (s *Storage) DeactivateCard(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `UPDATE cards SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Storage) CountCards(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

func scanCard(row pgx.Row) (*domain.Card, error) {
	var (
		card      domain.Card
		fee       string
		structure []byte
	)
	err := row.Scan(&card.ID, &card.Name, &card.Issuer, &fee, &structure, &card.IsActive, &card.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan card: %w", err)
	}
	if card.AnnualFee, err = decimal.NewFromString(fee); err != nil {
		return nil, fmt.Errorf("card %q annual fee: %w", card.ID, err)
	}
	card.RewardStructure = &domain.RewardStructure{}
	if err := json.Unmarshal(structure, card.RewardStructure); err != nil {
		// a broken structure still lists the card; the optimizer counts it as zero reward
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
	_, err := s.db.Exec(ctx, `
		INSERT INTO transactions
			(id, merchant, amount, category, recommended_card_id, recommended_card_name, actual_card_id, reward_earned, date)
		VALUES ($1, $2, $3::numeric, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8::numeric, $9)
	`, rec.ID, rec.Merchant, rec.Amount.String(), rec.Category, rec.RecommendedCardID, rec.RecommendedCardName,
		rec.ActualCardID, rec.RewardEarned.String(), rec.Date)
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

func (s *Storage) ListTransactions(ctx context.Context, limit int) ([]domain.PurchaseRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, merchant, amount::text, category,
			COALESCE(recommended_card_id, ''), COALESCE(recommended_card_name, ''), COALESCE(actual_card_id, ''),
			reward_earned::text, date
		FROM transactions
		ORDER BY date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

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
