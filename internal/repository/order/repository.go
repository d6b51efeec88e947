package order

import (
	"context"

	"featherlite/internal/domain"
)

type Repository interface {
	// Upsert writes an order keyed by its external id. An existing order
	// has its fields updated and its item set replaced wholesale, making
	// re-delivery idempotent.
	Upsert(ctx context.Context, o domain.Order) (*domain.Order, error)
	// List returns stored orders newest first with their items.
	List(ctx context.Context) ([]domain.Order, error)
}
