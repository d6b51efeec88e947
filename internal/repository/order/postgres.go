package order

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

func (r *postgresRepo) Upsert(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO orders (shopify_order_id, name, email, currency, subtotal_cents, total_cents, financial_status, fulfillment_status, processed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (shopify_order_id) DO UPDATE SET
    name = EXCLUDED.name,
    email = EXCLUDED.email,
    currency = EXCLUDED.currency,
    subtotal_cents = EXCLUDED.subtotal_cents,
    total_cents = EXCLUDED.total_cents,
    financial_status = EXCLUDED.financial_status,
    fulfillment_status = EXCLUDED.fulfillment_status,
    processed_at = EXCLUDED.processed_at
RETURNING id::text, created_at
`
	out := o
	if err := tx.QueryRow(ctx, q,
		o.ShopifyOrderID, o.Name, o.Email, o.Currency, o.SubtotalCents, o.TotalCents,
		o.FinancialStatus, o.FulfillmentStatus, o.ProcessedAt,
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		r.logger.Printf("order repo: upsert shopify_order_id=%s error=%v", o.ShopifyOrderID, err)
		return nil, err
	}

	// Replace the item set so re-delivery never duplicates items.
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, out.ID); err != nil {
		return nil, err
	}
	for i := range o.Items {
		item := o.Items[i]
		const iq = `
INSERT INTO order_items (order_id, title, sku, quantity, price_cents, shopify_line_item_id, merchandise_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text
`
		if err := tx.QueryRow(ctx, iq,
			out.ID, item.Title, item.SKU, item.Quantity, item.PriceCents, item.ShopifyLineItemID, item.MerchandiseID,
		).Scan(&out.Items[i].ID); err != nil {
			return nil, err
		}
		out.Items[i].OrderID = out.ID
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: upserted shopify_order_id=%s items=%d", out.ShopifyOrderID, len(out.Items))
	return &out, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	const q = `
SELECT id::text, shopify_order_id, name, email, currency, subtotal_cents, total_cents, financial_status, fulfillment_status, processed_at, created_at
FROM orders
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	index := make(map[string]int)
	var ids []string
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.ShopifyOrderID, &o.Name, &o.Email, &o.Currency, &o.SubtotalCents,
			&o.TotalCents, &o.FinancialStatus, &o.FulfillmentStatus, &o.ProcessedAt, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		o.Items = []domain.OrderItem{}
		index[o.ID] = len(result)
		ids = append(ids, o.ID)
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	const iq = `
SELECT id::text, order_id::text, title, sku, quantity, price_cents, shopify_line_item_id, merchandise_id
FROM order_items
WHERE order_id = ANY($1)
ORDER BY id ASC
`
	itemRows, err := r.pool.Query(ctx, iq, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item domain.OrderItem
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.Title, &item.SKU, &item.Quantity, &item.PriceCents, &item.ShopifyLineItemID, &item.MerchandiseID); err != nil {
			return nil, err
		}
		if i, ok := index[item.OrderID]; ok {
			result[i].Items = append(result[i].Items, item)
		}
	}
	return result, itemRows.Err()
}
