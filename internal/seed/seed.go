// Package seed loads the built-in demo catalog into storage for local
// development.
package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"featherlite/internal/catalog"
	"featherlite/internal/repository/product"
)

// Apply upserts every demo product; re-running it is safe.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) error {
	repo := product.NewPostgres(pool, logger)
	for _, p := range catalog.Products() {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}
	return nil
}
