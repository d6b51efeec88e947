// Package sync pulls the product catalog and order history from the
// platform's admin API into local storage.
package sync

import (
	"context"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"featherlite/internal/domain"
	"featherlite/internal/shopify"
)

type platform interface {
	AdminAPIConfigured() bool
	FetchProducts(ctx context.Context) ([]shopify.AdminProduct, error)
	FetchOrders(ctx context.Context) ([]shopify.AdminOrder, error)
}

type productRepo interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type orderIngester interface {
	Ingest(ctx context.Context, o shopify.AdminOrder) (*domain.Order, error)
}

type Service struct {
	platform platform
	products productRepo
	orders   orderIngester
	logger   *log.Logger
}

func New(platform platform, products productRepo, orders orderIngester, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{platform: platform, products: products, orders: orders, logger: logger}
}

// Products pulls the admin product list and upserts each record, returning
// how many were written. A per-product failure aborts the run so a retry
// resumes from a consistent state.
func (s *Service) Products(ctx context.Context) (int, error) {
	if !s.platform.AdminAPIConfigured() {
		return 0, domain.Upstream("admin API is not configured", nil)
	}
	fetched, err := s.platform.FetchProducts(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, raw := range fetched {
		product := mapProduct(raw)
		if product.Slug == "" {
			s.logger.Printf("sync: skipping product without handle or title id=%d", raw.ID)
			continue
		}
		if _, err := s.products.Upsert(ctx, product); err != nil {
			return count, err
		}
		count++
	}
	s.logger.Printf("sync: products synced count=%d", count)
	return count, nil
}

// Orders pulls recent orders and ingests each through the same path the
// webhook uses.
func (s *Service) Orders(ctx context.Context) (int, error) {
	if !s.platform.AdminAPIConfigured() {
		return 0, domain.Upstream("admin API is not configured", nil)
	}
	fetched, err := s.platform.FetchOrders(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, raw := range fetched {
		if _, err := s.orders.Ingest(ctx, raw); err != nil {
			return count, err
		}
		count++
	}
	s.logger.Printf("sync: orders synced count=%d", count)
	return count, nil
}

func mapProduct(raw shopify.AdminProduct) domain.Product {
	slug := strings.TrimSpace(raw.Handle)
	if slug == "" {
		slug = slugify(raw.Title)
	}
	kind := strings.ToLower(strings.TrimSpace(raw.ProductType))
	if kind == "" {
		kind = "makeup"
	}
	shopifyID := "gid://shopify/Product/" + strconv.FormatInt(raw.ID, 10)

	product := domain.Product{
		Slug:             slug,
		Name:             raw.Title,
		Kind:             kind,
		Description:      stripTags(raw.BodyHTML),
		Live:             raw.Status == "" || raw.Status == "active",
		ShopifyProductID: &shopifyID,
	}

	for _, rv := range raw.Variants {
		sku := strings.TrimSpace(rv.SKU)
		if sku == "" {
			sku = "shopify-variant-" + strconv.FormatInt(rv.ID, 10)
		}
		variantID := "gid://shopify/ProductVariant/" + strconv.FormatInt(rv.ID, 10)
		product.Variants = append(product.Variants, domain.Variant{
			Name:             rv.Title,
			SKU:              sku,
			PriceCents:       shopify.ToCents(rv.Price),
			StockQty:         rv.InventoryQuantity,
			ShopifyVariantID: &variantID,
		})
	}
	return product
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = slugPattern.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, " "))
}
