package product

import (
	"context"
	"io"
	"log"

	"featherlite/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `
p.id::text, p.slug, p.name, p.kind, COALESCE(p.description, ''), COALESCE(p.ingredients, ''),
p.live, p.shopify_product_id, p.attributes, p.created_at,
c.id::text, c.slug, c.name, COALESCE(c.season, '')
`

func (r *postgresRepo) ListLive(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products p
LEFT JOIN collections c ON c.id = p.collection_id
WHERE p.live
ORDER BY p.created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachVariants(ctx, result); err != nil {
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products p
LEFT JOIN collections c ON c.id = p.collection_id
WHERE p.slug = $1
`
	rows, err := r.pool.Query(ctx, q, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrNotFound
	}
	p, err := scanProduct(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	list := []domain.Product{*p}
	if err := r.attachVariants(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *postgresRepo) VariantsBySKUs(ctx context.Context, skus []string) ([]domain.Variant, error) {
	const q = `
SELECT id::text, product_id::text, name, sku, price_cents, stock_qty, COALESCE(hex, ''), shopify_variant_id, created_at
FROM variants
WHERE sku = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, skus)
	if err != nil {
		r.logger.Printf("product repo: variants by sku error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Variant
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.PriceCents, &v.StockQty, &v.Hex, &v.ShopifyVariantID, &v.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var collectionID *string
	if p.Collection != nil {
		const cq = `
INSERT INTO collections (slug, name, season)
VALUES ($1, $2, NULLIF($3, ''))
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, season = EXCLUDED.season
RETURNING id::text
`
		var id string
		if err := tx.QueryRow(ctx, cq, p.Collection.Slug, p.Collection.Name, p.Collection.Season).Scan(&id); err != nil {
			return nil, err
		}
		collectionID = &id
	}

	const pq = `
INSERT INTO products (slug, name, kind, description, ingredients, live, shopify_product_id, collection_id, attributes)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, COALESCE($9, '{}'::jsonb))
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    kind = EXCLUDED.kind,
    description = EXCLUDED.description,
    ingredients = EXCLUDED.ingredients,
    live = EXCLUDED.live,
    shopify_product_id = EXCLUDED.shopify_product_id,
    collection_id = COALESCE(EXCLUDED.collection_id, products.collection_id),
    attributes = EXCLUDED.attributes
RETURNING id::text, created_at
`
	out := p
	if err := tx.QueryRow(ctx, pq,
		p.Slug, p.Name, p.Kind, p.Description, p.Ingredients, p.Live, p.ShopifyProductID, collectionID, p.Attributes,
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", p.Slug, err)
		return nil, err
	}

	keepSKUs := make([]string, 0, len(p.Variants))
	for i := range p.Variants {
		v := p.Variants[i]
		const vq = `
INSERT INTO variants (product_id, name, sku, price_cents, stock_qty, hex, shopify_variant_id)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
ON CONFLICT (sku) DO UPDATE SET
    product_id = EXCLUDED.product_id,
    name = EXCLUDED.name,
    price_cents = EXCLUDED.price_cents,
    stock_qty = EXCLUDED.stock_qty,
    hex = EXCLUDED.hex,
    shopify_variant_id = EXCLUDED.shopify_variant_id
`
		if _, err := tx.Exec(ctx, vq, out.ID, v.Name, v.SKU, v.PriceCents, v.StockQty, v.Hex, v.ShopifyVariantID); err != nil {
			r.logger.Printf("product repo: upsert variant sku=%s error=%v", v.SKU, err)
			return nil, err
		}
		keepSKUs = append(keepSKUs, v.SKU)
	}

	// Variants dropped from the platform payload are pruned.
	if len(keepSKUs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM variants WHERE product_id = $1 AND sku != ALL($2)`, out.ID, keepSKUs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("product repo: upserted slug=%s id=%s variants=%d", out.Slug, out.ID, len(p.Variants))
	return &out, nil
}

func scanProduct(rows pgx.Rows) (*domain.Product, error) {
	var p domain.Product
	var collectionID, collectionSlug, collectionName, collectionSeason *string
	if err := rows.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Kind, &p.Description, &p.Ingredients,
		&p.Live, &p.ShopifyProductID, &p.Attributes, &p.CreatedAt,
		&collectionID, &collectionSlug, &collectionName, &collectionSeason,
	); err != nil {
		return nil, err
	}
	if collectionID != nil {
		p.Collection = &domain.Collection{ID: *collectionID, Slug: deref(collectionSlug), Name: deref(collectionName), Season: deref(collectionSeason)}
	}
	return &p, nil
}

func (r *postgresRepo) attachVariants(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	index := make(map[string]int, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
		index[products[i].ID] = i
	}

	const q = `
SELECT id::text, product_id::text, name, sku, price_cents, stock_qty, COALESCE(hex, ''), shopify_variant_id, created_at
FROM variants
WHERE product_id = ANY($1)
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.PriceCents, &v.StockQty, &v.Hex, &v.ShopifyVariantID, &v.CreatedAt); err != nil {
			return err
		}
		if i, ok := index[v.ProductID]; ok {
			products[i].Variants = append(products[i].Variants, v)
		}
	}
	return rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
