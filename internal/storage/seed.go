package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"card-optimizer/internal/domain"

	"github.com/google/uuid"
)

// Seed loads cards and purchases into an empty catalog. A catalog that already holds any
// card, active or not, is left alone. Reports whether anything was written.
func Seed(ctx context.Context, store Storage, cards []domain.Card, purchases []domain.PurchaseRecord) (bool, error) {
	n, err := store.CountCards(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	base := time.Now().UTC()
	names := make(map[string]string, len(cards))
	for i, card := range cards {
		// distinct timestamps keep catalog order stable across backends
		card.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		card.IsActive = true
		if err := store.UpsertCard(ctx, card); err != nil {
			return false, fmt.Errorf("seed card %q: %w", card.ID, err)
		}
		names[card.ID] = card.Name
	}

	for i, p := range purchases {
		p.ID = uuid.NewString()
		p.Date = base.Add(-time.Duration(len(purchases)-i) * 24 * time.Hour)
		if p.RecommendedCardName == "" {
			p.RecommendedCardName = names[p.RecommendedCardID]
		}
		if err := store.SaveTransaction(ctx, p); err != nil {
			return false, fmt.Errorf("seed purchase %q: %w", p.Merchant, err)
		}
	}

	slog.Info("Seeded demo data", "cards", len(cards), "purchases", len(purchases))
	return true, nil
}
