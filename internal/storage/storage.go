// internal/storage/storage.go
package storage

import (
	"context"

	"card-optimizer/internal/domain"
)

//go:generate mockgen -source=storage.go -destination=mocks/mock_storage.go -package=mocks

// CardStorage is the card catalog. Catalog order is creation order.
type CardStorage interface {
	ListActiveCards(ctx context.Context) ([]domain.Card, error)
	GetCard(ctx context.Context, id string) (*domain.Card, error)
	UpsertCard(ctx context.Context, card domain.Card) error
	DeactivateCard(ctx context.Context, id string) error
	CountCards(ctx context.Context) (int, error)
}

// TransactionStorage is the purchase history. Records must carry an ID.
type TransactionStorage interface {
	SaveTransaction(ctx context.Context, rec domain.PurchaseRecord) error
	ListTransactions(ctx context.Context, limit int) ([]domain.PurchaseRecord, error)
}

type Storage interface {
	CardStorage
	TransactionStorage
	Close() error
}
