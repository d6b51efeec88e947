// Package catalog serves the public product listing and detail reads. It
// layers approved-review rating aggregates onto products and degrades to
// the static fallback catalog when storage is unavailable.
package catalog

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	fallback "featherlite/internal/catalog"
	"featherlite/internal/domain"
)

// Filter narrows and orders the product listing. Zero values mean "no
// constraint"; Sort defaults to featured ordering.
type Filter struct {
	Query    string
	Category string
	Season   string
	Finish   string
	Coverage string
	Concern  string
	Sort     string
}

type productRepo interface {
	ListLive(ctx context.Context) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

type ratingRepo interface {
	RatingSummaries(ctx context.Context) (map[string]domain.RatingSummary, error)
}

type Service struct {
	products productRepo
	ratings  ratingRepo
	logger   *log.Logger
}

func New(products productRepo, ratings ratingRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{products: products, ratings: ratings, logger: logger}
}

// List returns the filtered, sorted listing plus the total number of live
// products before filtering.
func (s *Service) List(ctx context.Context, f Filter) ([]domain.Product, int, error) {
	var (
		products  []domain.Product
		summaries map[string]domain.RatingSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.loadProducts(gctx)
		return err
	})
	g.Go(func() error {
		summaries = s.loadSummaries(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	attachRatings(products, summaries)
	total := len(products)

	filtered := filterProducts(products, f)
	sortProducts(filtered, f.Sort)
	return filtered, total, nil
}

// GetBySlug returns one live product with its rating summary attached.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := s.getProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	summaries := s.loadSummaries(ctx)
	if summary, ok := summaries[p.ID]; ok {
		avg := summary.AverageRating
		p.AverageRating = &avg
		p.ReviewCount = summary.ReviewCount
	}
	return p, nil
}

func (s *Service) loadProducts(ctx context.Context) ([]domain.Product, error) {
	if s.products == nil {
		return fallback.Products(), nil
	}
	products, err := s.products.ListLive(ctx)
	if err != nil {
		s.logger.Printf("catalog: listing from storage failed, serving fallback error=%v", err)
		return fallback.Products(), nil
	}
	return products, nil
}

func (s *Service) getProduct(ctx context.Context, slug string) (*domain.Product, error) {
	if s.products == nil {
		if p := fallback.ProductBySlug(slug); p != nil {
			return p, nil
		}
		return nil, domain.ErrNotFound
	}
	p, err := s.products.GetBySlug(ctx, slug)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	s.logger.Printf("catalog: detail lookup failed, trying fallback slug=%s error=%v", slug, err)
	if p := fallback.ProductBySlug(slug); p != nil {
		return p, nil
	}
	return nil, err
}

// loadSummaries never fails the read path; a missing aggregate just means
// products render without ratings.
func (s *Service) loadSummaries(ctx context.Context) map[string]domain.RatingSummary {
	if s.ratings == nil {
		return nil
	}
	summaries, err := s.ratings.RatingSummaries(ctx)
	if err != nil {
		s.logger.Printf("catalog: rating aggregation failed error=%v", err)
		return nil
	}
	return summaries
}

func attachRatings(products []domain.Product, summaries map[string]domain.RatingSummary) {
	if len(summaries) == 0 {
		return
	}
	for i := range products {
		if s, ok := summaries[products[i].ID]; ok {
			avg := s.AverageRating
			products[i].AverageRating = &avg
			products[i].ReviewCount = s.ReviewCount
		}
	}
}

func filterProducts(products []domain.Product, f Filter) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	query := strings.ToLower(strings.TrimSpace(f.Query))
	for _, p := range products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Kind, f.Category) {
			continue
		}
		if f.Season != "" {
			if p.Collection == nil || !strings.EqualFold(p.Collection.Season, f.Season) {
				continue
			}
		}
		if f.Finish != "" && !strings.EqualFold(attrString(p, "finish"), f.Finish) {
			continue
		}
		if f.Coverage != "" && !strings.EqualFold(attrString(p, "coverage"), f.Coverage) {
			continue
		}
		if f.Concern != "" && !attrListContains(p, "concerns", f.Concern) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p domain.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query)
}

func attrString(p domain.Product, key string) string {
	if p.Attributes == nil {
		return ""
	}
	if v, ok := p.Attributes[key].(string); ok {
		return v
	}
	return ""
}

func attrListContains(p domain.Product, key, want string) bool {
	if p.Attributes == nil {
		return false
	}
	switch list := p.Attributes[key].(type) {
	case []string:
		for _, v := range list {
			if strings.EqualFold(v, want) {
				return true
			}
		}
	case []interface{}:
		for _, raw := range list {
			if v, ok := raw.(string); ok && strings.EqualFold(v, want) {
				return true
			}
		}
	}
	return false
}

func attrFloat(p domain.Product, key string) float64 {
	if p.Attributes == nil {
		return 0
	}
	switch v := p.Attributes[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func minPriceCents(p domain.Product) int64 {
	if len(p.Variants) == 0 {
		return 0
	}
	min := p.Variants[0].PriceCents
	for _, v := range p.Variants[1:] {
		if v.PriceCents < min {
			min = v.PriceCents
		}
	}
	return min
}

// sortProducts orders in place. "featured" (and anything unrecognized)
// keeps storage order, which is newest first.
func sortProducts(products []domain.Product, key string) {
	switch key {
	case "price-asc":
		sort.SliceStable(products, func(i, j int) bool {
			return minPriceCents(products[i]) < minPriceCents(products[j])
		})
	case "price-desc":
		sort.SliceStable(products, func(i, j int) bool {
			return minPriceCents(products[i]) > minPriceCents(products[j])
		})
	case "rating":
		sort.SliceStable(products, func(i, j int) bool {
			return ratingOf(products[i]) > ratingOf(products[j])
		})
	case "popularity":
		sort.SliceStable(products, func(i, j int) bool {
			return attrFloat(products[i], "popularityScore") > attrFloat(products[j], "popularityScore")
		})
	}
}

func ratingOf(p domain.Product) float64 {
	if p.AverageRating == nil {
		return 0
	}
	return *p.AverageRating
}
