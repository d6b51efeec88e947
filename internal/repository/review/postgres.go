package review

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

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

func (r *postgresRepo) Create(ctx context.Context, in domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (product_id, name, rating, comment, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, created_at
`
	out := in
	if err := r.pool.QueryRow(ctx, q, in.ProductID, in.Name, in.Rating, in.Comment, in.Status).Scan(&out.ID, &out.CreatedAt); err != nil {
		r.logger.Printf("review repo: create product_id=%s error=%v", in.ProductID, err)
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Review, error) {
	const q = `
SELECT r.id::text, r.product_id::text, r.name, r.rating, r.comment, r.status, r.moderated_by, r.moderated_at, r.created_at,
       p.id::text, p.name, p.slug
FROM reviews r
JOIN products p ON p.id = r.product_id
WHERE ($1 = '' OR r.product_id::text = $1)
  AND ($2 = '' OR r.status = $2)
ORDER BY r.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, f.ProductID, f.Status)
	if err != nil {
		r.logger.Printf("review repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var rev domain.Review
		var product domain.ReviewProduct
		if err := rows.Scan(
			&rev.ID, &rev.ProductID, &rev.Name, &rev.Rating, &rev.Comment,
			&rev.Status, &rev.ModeratedBy, &rev.ModeratedAt, &rev.CreatedAt,
			&product.ID, &product.Name, &product.Slug,
		); err != nil {
			return nil, err
		}
		if f.IncludeProduct {
			rev.Product = &product
		}
		result = append(result, rev)
	}
	return result, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string, moderatedBy *string, moderatedAt *time.Time) (*domain.Review, error) {
	const q = `
UPDATE reviews
SET status = $1, moderated_by = $2, moderated_at = $3
WHERE id = $4
RETURNING id::text, product_id::text, name, rating, comment, status, moderated_by, moderated_at, created_at
`
	var rev domain.Review
	err := r.pool.QueryRow(ctx, q, status, moderatedBy, moderatedAt, id).Scan(
		&rev.ID, &rev.ProductID, &rev.Name, &rev.Rating, &rev.Comment,
		&rev.Status, &rev.ModeratedBy, &rev.ModeratedAt, &rev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("review repo: update status id=%s error=%v", id, err)
		return nil, err
	}
	return &rev, nil
}

func (r *postgresRepo) RatingSummaries(ctx context.Context) (map[string]domain.RatingSummary, error) {
	const q = `
SELECT product_id::text, AVG(rating)::float8, COUNT(*)
FROM reviews
WHERE status = 'APPROVED'
GROUP BY product_id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("review repo: rating summaries error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]domain.RatingSummary)
	for rows.Next() {
		var s domain.RatingSummary
		if err := rows.Scan(&s.ProductID, &s.AverageRating, &s.ReviewCount); err != nil {
			return nil, err
		}
		result[s.ProductID] = s
	}
	return result, rows.Err()
}
