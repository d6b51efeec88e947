package domain

import "time"

// Order is an ingested external order, upserted idempotently by
// ShopifyOrderID. Re-delivery replaces the item set wholesale.
type Order struct {
	ID                string      `json:"id"`
	ShopifyOrderID    string      `json:"shopifyOrderId"`
	Name              *string     `json:"name,omitempty"`
	Email             *string     `json:"email,omitempty"`
	Currency          string      `json:"currency"`
	SubtotalCents     int64       `json:"subtotalCents"`
	TotalCents        int64       `json:"totalCents"`
	FinancialStatus   string      `json:"financialStatus"`
	FulfillmentStatus *string     `json:"fulfillmentStatus,omitempty"`
	ProcessedAt       *time.Time  `json:"processedAt,omitempty"`
	Items             []OrderItem `json:"items"`
	CreatedAt         time.Time   `json:"createdAt"`
}

type OrderItem struct {
	ID                string  `json:"id"`
	OrderID           string  `json:"orderId"`
	Title             string  `json:"title"`
	SKU               *string `json:"sku,omitempty"`
	Quantity          int     `json:"quantity"`
	PriceCents        int64   `json:"priceCents"`
	ShopifyLineItemID *string `json:"shopifyLineItemId,omitempty"`
	MerchandiseID     *string `json:"merchandiseId,omitempty"`
}
