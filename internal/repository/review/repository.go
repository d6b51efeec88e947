package review

import (
	"context"
	"time"

	"featherlite/internal/domain"
)

// ListFilter narrows review listings. An empty Status means all statuses.
type ListFilter struct {
	ProductID      string
	Status         string
	IncludeProduct bool
}

type Repository interface {
	Create(ctx context.Context, r domain.Review) (*domain.Review, error)
	List(ctx context.Context, f ListFilter) ([]domain.Review, error)
	// UpdateStatus moves a review to status, recording (or clearing) the
	// moderation audit fields.
	UpdateStatus(ctx context.Context, id, status string, moderatedBy *string, moderatedAt *time.Time) (*domain.Review, error)
	// RatingSummaries aggregates approved reviews per product.
	RatingSummaries(ctx context.Context) (map[string]domain.RatingSummary, error)
}
