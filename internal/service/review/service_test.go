package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"featherlite/internal/domain"
	"featherlite/internal/repository/review"
)

type stubReviewRepo struct {
	created   []domain.Review
	listCalls []review.ListFilter
	listed    []domain.Review
	updated   *domain.Review

	gotStatus      string
	gotModeratedBy *string
	gotModeratedAt *time.Time
}

func (s *stubReviewRepo) Create(_ context.Context, r domain.Review) (*domain.Review, error) {
	s.created = append(s.created, r)
	out := r
	out.ID = "rev-1"
	out.CreatedAt = time.Now()
	return &out, nil
}

func (s *stubReviewRepo) List(_ context.Context, f review.ListFilter) ([]domain.Review, error) {
	s.listCalls = append(s.listCalls, f)
	return s.listed, nil
}

func (s *stubReviewRepo) UpdateStatus(_ context.Context, id, status string, moderatedBy *string, moderatedAt *time.Time) (*domain.Review, error) {
	s.gotStatus = status
	s.gotModeratedBy = moderatedBy
	s.gotModeratedAt = moderatedAt
	if s.updated == nil {
		return nil, domain.ErrNotFound
	}
	out := *s.updated
	out.Status = status
	return &out, nil
}

type stubProductRepo struct {
	product *domain.Product
}

func (s *stubProductRepo) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	if s.product == nil || s.product.Slug != slug {
		return nil, domain.ErrNotFound
	}
	return s.product, nil
}

func testProduct() *domain.Product {
	return &domain.Product{ID: "prod-1", Slug: "weightless-mineral-foundation", Name: "Weightless Mineral Foundation"}
}

func TestSubmitCreatesPendingReview(t *testing.T) {
	reviews := &stubReviewRepo{}
	svc := New(reviews, &stubProductRepo{product: testProduct()}, nil)

	created, err := svc.Submit(context.Background(), SubmitInput{
		ProductSlug: "weightless-mineral-foundation",
		Name:        "Dana",
		Rating:      5,
		Comment:     "Feels like nothing on the skin.",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.Status != domain.ReviewPending {
		t.Fatalf("status = %q, want PENDING", created.Status)
	}
	if reviews.created[0].ProductID != "prod-1" {
		t.Fatalf("productId = %q", reviews.created[0].ProductID)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := New(&stubReviewRepo{}, &stubProductRepo{product: testProduct()}, nil)
	ctx := context.Background()

	cases := []SubmitInput{
		{ProductSlug: "", Rating: 4, Comment: "ok"},
		{ProductSlug: "weightless-mineral-foundation", Rating: 4, Comment: "  "},
		{ProductSlug: "weightless-mineral-foundation", Rating: 0, Comment: "ok"},
		{ProductSlug: "weightless-mineral-foundation", Rating: 6, Comment: "ok"},
	}
	for i, in := range cases {
		var verr *domain.ValidationError
		if _, err := svc.Submit(ctx, in); !errors.As(err, &verr) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestSubmitUnknownProduct(t *testing.T) {
	svc := New(&stubReviewRepo{}, &stubProductRepo{}, nil)
	_, err := svc.Submit(context.Background(), SubmitInput{ProductSlug: "ghost", Rating: 3, Comment: "ok"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPublicRequiresSlug(t *testing.T) {
	svc := New(&stubReviewRepo{}, &stubProductRepo{product: testProduct()}, nil)
	_, err := svc.List(context.Background(), ListInput{Admin: false})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestListPublicForcesApproved(t *testing.T) {
	reviews := &stubReviewRepo{}
	svc := New(reviews, &stubProductRepo{product: testProduct()}, nil)

	_, err := svc.List(context.Background(), ListInput{
		ProductSlug:    "weightless-mineral-foundation",
		IncludeProduct: true,
		Admin:          false,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	filter := reviews.listCalls[0]
	if filter.Status != domain.ReviewApproved {
		t.Fatalf("status filter = %q, want APPROVED", filter.Status)
	}
	if filter.IncludeProduct {
		t.Fatal("public listings must not include product records")
	}
}

func TestListPublicCannotRequestPending(t *testing.T) {
	svc := New(&stubReviewRepo{}, &stubProductRepo{product: testProduct()}, nil)
	_, err := svc.List(context.Background(), ListInput{
		ProductSlug: "weightless-mineral-foundation",
		Status:      "pending",
		Admin:       false,
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestListAdminAllStatuses(t *testing.T) {
	reviews := &stubReviewRepo{}
	svc := New(reviews, &stubProductRepo{product: testProduct()}, nil)

	if _, err := svc.List(context.Background(), ListInput{Status: "all", Admin: true}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := reviews.listCalls[0].Status; got != "" {
		t.Fatalf("status filter = %q, want empty", got)
	}
}

func TestListUnknownStatus(t *testing.T) {
	svc := New(&stubReviewRepo{}, &stubProductRepo{product: testProduct()}, nil)
	var verr *domain.ValidationError
	if _, err := svc.List(context.Background(), ListInput{Status: "weird", Admin: true}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestModerateApproveRecordsModerator(t *testing.T) {
	reviews := &stubReviewRepo{updated: &domain.Review{ID: "rev-1"}}
	svc := New(reviews, &stubProductRepo{}, nil)
	at := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	updated, err := svc.Moderate(context.Background(), "rev-1", "approved", "moderator@featherlite.test")
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if updated.Status != domain.ReviewApproved {
		t.Fatalf("status = %q", updated.Status)
	}
	if reviews.gotModeratedBy == nil || *reviews.gotModeratedBy != "moderator@featherlite.test" {
		t.Fatalf("moderatedBy = %v", reviews.gotModeratedBy)
	}
	if reviews.gotModeratedAt == nil || !reviews.gotModeratedAt.Equal(at) {
		t.Fatalf("moderatedAt = %v", reviews.gotModeratedAt)
	}
}

func TestModerateBackToPendingClearsAudit(t *testing.T) {
	reviews := &stubReviewRepo{updated: &domain.Review{ID: "rev-1"}}
	svc := New(reviews, &stubProductRepo{}, nil)

	if _, err := svc.Moderate(context.Background(), "rev-1", "PENDING", "moderator@featherlite.test"); err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if reviews.gotModeratedBy != nil || reviews.gotModeratedAt != nil {
		t.Fatal("expected moderation audit fields cleared")
	}
}

func TestModerateUnknownStatus(t *testing.T) {
	svc := New(&stubReviewRepo{}, &stubProductRepo{}, nil)
	var verr *domain.ValidationError
	if _, err := svc.Moderate(context.Background(), "rev-1", "SHIPPED", "moderator@featherlite.test"); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
