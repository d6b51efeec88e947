// Package checkout builds hosted-checkout sessions from SKU/quantity
// requests. Prices always come from the authoritative catalog, never from
// the client.
package checkout

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"featherlite/internal/catalog"
	"featherlite/internal/domain"
)

// Item is one requested SKU with a quantity.
type Item struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// Result carries the redirect URL for the hosted checkout. Mock is set
// when the payment platform is unconfigured and the URL is a deterministic
// placeholder, so callers can surface degraded-mode UI.
type Result struct {
	URL        string `json:"url"`
	CheckoutID string `json:"checkoutId"`
	Mock       bool   `json:"mock,omitempty"`
}

type variantRepo interface {
	VariantsBySKUs(ctx context.Context, skus []string) ([]domain.Variant, error)
}

type provider interface {
	StorefrontConfigured() bool
	CreateCart(ctx context.Context, lines []domain.CartLineInput) (*domain.Cart, error)
}

// Service resolves requested SKUs against the catalog and obtains a
// checkout URL from the platform (or fabricates a mock one).
type Service struct {
	variants variantRepo
	provider provider
	mockBase string
	logger   *log.Logger
	now      func() time.Time
}

func New(variants variantRepo, provider provider, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		variants: variants,
		provider: provider,
		mockBase: "https://checkout.featherlite.test",
		logger:   logger,
		now:      time.Now,
	}
}

// Build validates and prices the requested items, then returns a checkout
// redirect. Duplicate SKUs merge by summing quantities; empty SKUs and
// non-positive quantities are dropped before validation.
func (s *Service) Build(ctx context.Context, items []Item) (*Result, error) {
	normalized := normalizeItems(items)
	if len(normalized) == 0 {
		return nil, domain.Invalid("no items")
	}

	skus := make([]string, 0, len(normalized))
	for _, item := range normalized {
		skus = append(skus, item.SKU)
	}

	bySKU := s.resolveVariants(ctx, skus)

	var missing []string
	for _, sku := range skus {
		if _, ok := bySKU[sku]; !ok {
			missing = append(missing, sku)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Message: "invalid SKUs", Missing: missing}
	}

	lines := make([]domain.CartLineInput, 0, len(normalized))
	for _, item := range normalized {
		variant := bySKU[item.SKU]
		if variant.ShopifyVariantID == nil || *variant.ShopifyVariantID == "" {
			return nil, &domain.ValidationError{
				Message: "variants cannot be purchased online",
				Missing: []string{item.SKU},
			}
		}
		lines = append(lines, domain.CartLineInput{
			MerchandiseID: *variant.ShopifyVariantID,
			Quantity:      item.Qty,
		})
	}

	if s.provider == nil || !s.provider.StorefrontConfigured() {
		id := fmt.Sprintf("mock-checkout-%d", s.now().UnixMilli())
		return &Result{
			URL:        s.mockBase + "/" + id,
			CheckoutID: id,
			Mock:       true,
		}, nil
	}

	cart, err := s.provider.CreateCart(ctx, lines)
	if err != nil {
		return nil, err
	}
	if cart.CheckoutURL == nil || *cart.CheckoutURL == "" {
		return nil, domain.Upstream("checkout did not return a web URL", nil)
	}
	return &Result{URL: *cart.CheckoutURL, CheckoutID: cart.ID}, nil
}

// resolveVariants loads catalog records for the SKUs, filling gaps from the
// static fallback catalog when storage is unavailable or incomplete.
func (s *Service) resolveVariants(ctx context.Context, skus []string) map[string]domain.Variant {
	bySKU := make(map[string]domain.Variant, len(skus))
	if s.variants != nil {
		found, err := s.variants.VariantsBySKUs(ctx, skus)
		if err != nil {
			s.logger.Printf("checkout: variant lookup failed, using fallback catalog error=%v", err)
		}
		for _, v := range found {
			bySKU[v.SKU] = v
		}
	}
	for _, sku := range skus {
		if _, ok := bySKU[sku]; ok {
			continue
		}
		if entry, ok := catalog.VariantBySKU(sku); ok {
			bySKU[sku] = entry.Variant
		}
	}
	return bySKU
}

func normalizeItems(items []Item) []Item {
	quantities := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		sku := strings.TrimSpace(item.SKU)
		if sku == "" || item.Qty <= 0 {
			continue
		}
		if _, seen := quantities[sku]; !seen {
			order = append(order, sku)
		}
		quantities[sku] += item.Qty
	}
	out := make([]Item, 0, len(order))
	for _, sku := range order {
		out = append(out, Item{SKU: sku, Qty: quantities[sku]})
	}
	return out
}
