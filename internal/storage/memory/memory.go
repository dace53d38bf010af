// Package memory is an in-process store for tests and runs without a database.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"card-optimizer/internal/domain"
)

type Storage struct {
	mu           sync.RWMutex
	cards        map[string]domain.Card
	order        []string
	transactions []domain.PurchaseRecord
}

func New() *Storage {
	return &Storage{cards: make(map[string]domain.Card)}
}

func (s *Storage) Close() error { return nil }

func (s *Storage) ListActiveCards(_ context.Context) ([]domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Card
	for _, id := range s.order {
		if c := s.cards[id]; c.IsActive {
			out = append(out, cloneCard(c))
		}
	}
	return out, nil
}

func (s *Storage) GetCard(_ context.Context, id string) (*domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cards[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c = cloneCard(c)
	return &c, nil
}

func (s *Storage) UpsertCard(_ context.Context, card domain.Card) error {
	if card.ID == "" {
		return fmt.Errorf("card id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.cards[card.ID]; ok {
		card.CreatedAt = existing.CreatedAt
	} else {
		if card.CreatedAt.IsZero() {
			card.CreatedAt = time.Now().UTC()
		}
		s.order = append(s.order, card.ID)
	}
	s.cards[card.ID] = cloneCard(card)
	return nil
}

func (s *Storage) DeactivateCard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.IsActive = false
	s.cards[id] = c
	return nil
}

func (s *Storage) CountCards(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards), nil
}

func (s *Storage) SaveTransaction(_ context.Context, rec domain.PurchaseRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("transaction id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, rec)
	return nil
}

// ListTransactions returns the newest records first.
func (s *Storage) ListTransactions(_ context.Context, limit int) ([]domain.PurchaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.transactions)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b domain.PurchaseRecord) int {
		return b.Date.Compare(a.Date)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneCard(c domain.Card) domain.Card {
	if c.RewardStructure != nil {
		rs := *c.RewardStructure
		rs.Categories = maps.Clone(rs.Categories)
		rs.AnnualCaps = maps.Clone(rs.AnnualCaps)
		c.RewardStructure = &rs
	}
	return c
}
