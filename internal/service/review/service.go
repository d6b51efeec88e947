// Package review handles public review submission and admin moderation.
package review

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"featherlite/internal/domain"
	"featherlite/internal/repository/review"
)

// SubmitInput is a public review submission. Name is optional.
type SubmitInput struct {
	ProductSlug string
	Name        string
	Rating      int
	Comment     string
}

// ListInput narrows a listing. Admin sessions may list any status across
// all products; public callers are restricted to approved reviews of a
// single product.
type ListInput struct {
	ProductSlug    string
	Status         string
	IncludeProduct bool
	Admin          bool
}

type reviewRepo interface {
	Create(ctx context.Context, r domain.Review) (*domain.Review, error)
	List(ctx context.Context, f review.ListFilter) ([]domain.Review, error)
	UpdateStatus(ctx context.Context, id, status string, moderatedBy *string, moderatedAt *time.Time) (*domain.Review, error)
}

type productRepo interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

type Service struct {
	reviews  reviewRepo
	products productRepo
	logger   *log.Logger
	now      func() time.Time
}

func New(reviews reviewRepo, products productRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{reviews: reviews, products: products, logger: logger, now: time.Now}
}

// Submit creates a pending review for the product named by slug.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domain.Review, error) {
	slug := strings.TrimSpace(in.ProductSlug)
	comment := strings.TrimSpace(in.Comment)
	if slug == "" {
		return nil, domain.Invalid("productSlug is required")
	}
	if comment == "" {
		return nil, domain.Invalid("comment is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.Invalid("rating must be between 1 and 5")
	}

	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	rev := domain.Review{
		ProductID: product.ID,
		Rating:    in.Rating,
		Comment:   comment,
		Status:    domain.ReviewPending,
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		rev.Name = &name
	}
	created, err := s.reviews.Create(ctx, rev)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("review: submitted id=%s product=%s rating=%d", created.ID, slug, created.Rating)
	return created, nil
}

// List applies the visibility rules, then queries storage. Public callers
// must name a product and only ever see approved reviews.
func (s *Service) List(ctx context.Context, in ListInput) ([]domain.Review, error) {
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "ALL" {
		status = ""
	}
	if status != "" && !domain.ValidReviewStatus(status) {
		return nil, domain.Invalid("unknown review status")
	}

	if !in.Admin {
		if strings.TrimSpace(in.ProductSlug) == "" {
			return nil, domain.ErrUnauthorized
		}
		if status != "" && status != domain.ReviewApproved {
			return nil, domain.ErrUnauthorized
		}
		status = domain.ReviewApproved
		in.IncludeProduct = false
	}

	filter := review.ListFilter{Status: status, IncludeProduct: in.IncludeProduct}
	if slug := strings.TrimSpace(in.ProductSlug); slug != "" {
		product, err := s.products.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		filter.ProductID = product.ID
	}

	reviews, err := s.reviews.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// Moderate moves a review to status on behalf of moderator. Returning a
// review to PENDING clears the moderation record.
func (s *Service) Moderate(ctx context.Context, id, status, moderator string) (*domain.Review, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !domain.ValidReviewStatus(status) {
		return nil, domain.Invalid("unknown review status")
	}

	var (
		moderatedBy *string
		moderatedAt *time.Time
	)
	if status != domain.ReviewPending {
		at := s.now().UTC()
		moderatedBy = &moderator
		moderatedAt = &at
	}

	updated, err := s.reviews.UpdateStatus(ctx, id, status, moderatedBy, moderatedAt)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("review: moderated id=%s status=%s by=%s", id, status, moderator)
	return updated, nil
}
