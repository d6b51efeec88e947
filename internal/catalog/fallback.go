// Package catalog holds the static fallback catalog used when neither the
// database nor the platform admin API can serve product data. Variants are
// indexed by SKU and by external merchandise id so cart and checkout code
// can resolve either identifier offline.
package catalog

import (
	"time"

	"featherlite/internal/domain"
)

// Entry pairs a fallback variant with its owning product.
type Entry struct {
	Product domain.Product
	Variant domain.Variant
}

var (
	products    []domain.Product
	bySKU       map[string]Entry
	byShopifyID map[string]Entry
)

func strPtr(v string) *string { return &v }

func init() {
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	products = []domain.Product{
		{
			ID:   "prod-weightless-foundation",
			Slug: "weightless-mineral-foundation",
			Name: "Weightless Mineral Foundation",
			Kind: "foundation",
			Description: "An airy mineral foundation that blurs imperfections and nourishes " +
				"skin with a satin, second-skin finish.",
			Ingredients: "Mica, Zinc Oxide, Rice Powder, Squalane, Aloe Leaf Extract, Vitamin E.",
			Live:        true,
			Collection:  &domain.Collection{Slug: "year-round", Name: "Year-Round", Season: "Year-Round"},
			Attributes: map[string]interface{}{
				"finish":          "satin",
				"coverage":        "buildable",
				"texture":         "Feather-light loose mineral powder",
				"concerns":        []string{"sensitivity", "redness", "oil-control"},
				"popularityScore": 95,
			},
			Variants: []domain.Variant{
				{ID: "var-foundation-porcelain", ProductID: "prod-weightless-foundation", Name: "Porcelain", SKU: "FL-FOUND-01", PriceCents: 3200, Hex: "#F7E6DB", ShopifyVariantID: strPtr("gid://shopify/ProductVariant/foundation-porcelain"), CreatedAt: created},
				{ID: "var-foundation-vanilla", ProductID: "prod-weightless-foundation", Name: "Vanilla", SKU: "FL-FOUND-02", PriceCents: 3200, Hex: "#F0D5C2", ShopifyVariantID: strPtr("gid://shopify/ProductVariant/foundation-vanilla"), CreatedAt: created},
				{ID: "var-foundation-sand", ProductID: "prod-weightless-foundation", Name: "Sand", SKU: "FL-FOUND-03", PriceCents: 3200, Hex: "#D9B093", ShopifyVariantID: strPtr("gid://shopify/ProductVariant/foundation-sand"), CreatedAt: created},
				{ID: "var-foundation-mocha", ProductID: "prod-weightless-foundation", Name: "Mocha", SKU: "FL-FOUND-04", PriceCents: 3200, Hex: "#8C5B45", ShopifyVariantID: strPtr("gid://shopify/ProductVariant/foundation-mocha"), CreatedAt: created},
			},
			CreatedAt: created,
		},
		{
			ID:   "prod-silk-veil-powder",
			Slug: "silk-veil-setting-powder",
			Name: "Silk Veil Setting Powder",
			Kind: "set",
			Description: "A translucent finishing powder that softens texture and locks in " +
				"makeup without muting your glow.",
			Ingredients: "Kaolin Clay, Rice Bran, Hyaluronic Acid, Chamomile Flower Powder.",
			Live:        true,
			Collection:  &domain.Collection{Slug: "spring", Name: "Spring", Season: "Spring"},
			Attributes: map[string]interface{}{
				"finish":          "matte",
				"coverage":        "sheer",
				"texture":         "Ultra-fine finishing powder",
				"concerns":        []string{"shine", "texture"},
				"popularityScore": 82,
			},
			Variants: []domain.Variant{
				{ID: "var-powder-translucent", ProductID: "prod-silk-veil-powder", Name: "Translucent", SKU: "FL-POW-01", PriceCents: 2600, ShopifyVariantID: strPtr("gid://shopify/ProductVariant/powder-translucent"), CreatedAt: created},
				{ID: "var-powder-rose", ProductID: "prod-silk-veil-powder", Name: "Soft Rose", SKU: "FL-POW-02", PriceCents: 2600, ShopifyVariantID: strPtr("gid://shopify/ProductVariant/powder-rose"), CreatedAt: created},
			},
			CreatedAt: created,
		},
		{
			ID:   "prod-luminous-blush",
			Slug: "luminous-mineral-blush",
			Name: "Luminous Mineral Blush Duo",
			Kind: "blush",
			Description: "Silky mineral blushes baked with plant oils for a lit-from-within " +
				"flush that melts into skin.",
			Ingredients: "Mica, Rosehip Oil, Shea Butter, Hibiscus Extract, Vitamin C.",
			Live:        true,
			Collection:  &domain.Collection{Slug: "summer", Name: "Summer", Season: "Summer"},
			Attributes: map[string]interface{}{
				"finish":          "luminous",
				"coverage":        "buildable",
				"texture":         "Baked mineral duo compact",
				"concerns":        []string{"dullness"},
				"popularityScore": 76,
			},
			Variants: []domain.Variant{
				{ID: "var-blush-dawn", ProductID: "prod-luminous-blush", Name: "Soft Dawn", SKU: "FL-BLUSH-01", PriceCents: 2800, Hex: "#F5A0A9", ShopifyVariantID: strPtr("gid://shopify/ProductVariant/blush-dawn"), CreatedAt: created},
				{ID: "var-blush-horizon", ProductID: "prod-luminous-blush", Name: "Golden Horizon", SKU: "FL-BLUSH-02", PriceCents: 2800, Hex: "#EB7965", ShopifyVariantID: strPtr("gid://shopify/ProductVariant/blush-horizon"), CreatedAt: created},
			},
			CreatedAt: created,
		},
		{
			ID:   "prod-horizon-eye",
			Slug: "horizon-eye-quartet",
			Name: "Horizon Eye Quartet",
			Kind: "eyeshadow",
			Description: "Four weightless mineral shadows inspired by sunrise light, with " +
				"buttery mattes and prismatic shimmers.",
			Ingredients: "Mica, Jojoba Oil, Sunflower Seed Wax, Calendula Extract.",
			Live:        true,
			Collection:  &domain.Collection{Slug: "fall", Name: "Fall", Season: "Fall"},
			Attributes: map[string]interface{}{
				"finish":          "radiant",
				"coverage":        "medium",
				"texture":         "Pressed mineral shadows",
				"concerns":        []string{"creasing"},
				"popularityScore": 68,
			},
			Variants: []domain.Variant{
				{ID: "var-eye-quartet", ProductID: "prod-horizon-eye", Name: "Sunrise Horizon", SKU: "FL-EYE-01", PriceCents: 4200, ShopifyVariantID: strPtr("gid://shopify/ProductVariant/eye-horizon"), CreatedAt: created},
			},
			CreatedAt: created,
		},
	}

	bySKU = make(map[string]Entry)
	byShopifyID = make(map[string]Entry)
	for _, p := range products {
		for _, v := range p.Variants {
			e := Entry{Product: p, Variant: v}
			bySKU[v.SKU] = e
			if v.ShopifyVariantID != nil {
				byShopifyID[*v.ShopifyVariantID] = e
			}
		}
	}
}

// Products returns the full fallback catalog.
func Products() []domain.Product {
	return products
}

// ProductBySlug returns the fallback product for slug, or nil.
func ProductBySlug(slug string) *domain.Product {
	for i := range products {
		if products[i].Slug == slug {
			return &products[i]
		}
	}
	return nil
}

// VariantBySKU resolves a fallback variant by SKU.
func VariantBySKU(sku string) (Entry, bool) {
	e, ok := bySKU[sku]
	return e, ok
}

// VariantByMerchandiseID resolves a fallback variant by its external
// platform identifier.
func VariantByMerchandiseID(id string) (Entry, bool) {
	e, ok := byShopifyID[id]
	return e, ok
}
