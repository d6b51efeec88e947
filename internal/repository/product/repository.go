package product

import (
	"context"

	"featherlite/internal/domain"
)

type Repository interface {
	// ListLive returns all live products with variants and collection
	// attached, newest first.
	ListLive(ctx context.Context) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	// VariantsBySKUs resolves catalog variants for checkout; missing SKUs
	// are simply absent from the result.
	VariantsBySKUs(ctx context.Context, skus []string) ([]domain.Variant, error)
	// Upsert writes a product and its variant set, pruning variants that
	// are no longer present. Used by the sync job and the seeder.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
