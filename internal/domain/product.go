package domain

import "time"

type Product struct {
	ID               string                 `json:"id"`
	Slug             string                 `json:"slug"`
	Name             string                 `json:"name"`
	Kind             string                 `json:"kind"`
	Description      string                 `json:"description,omitempty"`
	Ingredients      string                 `json:"ingredients,omitempty"`
	Live             bool                   `json:"live"`
	ShopifyProductID *string                `json:"shopifyProductId,omitempty"`
	Collection       *Collection            `json:"collection,omitempty"`
	Attributes       map[string]interface{} `json:"attributes,omitempty"`
	Variants         []Variant              `json:"variants,omitempty"`
	AverageRating    *float64               `json:"averageRating,omitempty"`
	ReviewCount      int                    `json:"reviewCount,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
}

// Variant is read-only reference data priced in cents. ShopifyVariantID is
// the external platform's purchasable identifier; a variant without one
// cannot be checked out online.
type Variant struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"productId"`
	Name             string    `json:"name"`
	SKU              string    `json:"sku"`
	PriceCents       int64     `json:"priceCents"`
	StockQty         int       `json:"stockQty"`
	Hex              string    `json:"hex,omitempty"`
	ShopifyVariantID *string   `json:"shopifyVariantId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Collection struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Season string `json:"season,omitempty"`
}

// RatingSummary aggregates approved reviews for one product.
type RatingSummary struct {
	ProductID     string  `json:"productId"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}
