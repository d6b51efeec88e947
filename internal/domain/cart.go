package domain

// Cart is the canonical cart shape shared by the remote storefront path and
// the in-memory mock path. SubtotalCents always equals the sum of the line
// totals; an empty cart has Items == [] and SubtotalCents == 0.
type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   *string    `json:"checkoutUrl"`
	Items         []CartLine `json:"items"`
	SubtotalCents int64      `json:"subtotalCents"`
	CurrencyCode  string     `json:"currencyCode"`
}

// CartLine is one merchandise entry within a cart.
// LineTotalCents == UnitPriceCents * Quantity.
type CartLine struct {
	ID             string  `json:"id"`
	MerchandiseID  string  `json:"merchandiseId"`
	Title          string  `json:"title"`
	Quantity       int     `json:"quantity"`
	SKU            *string `json:"sku"`
	UnitPriceCents int64   `json:"unitPriceCents"`
	LineTotalCents int64   `json:"lineTotalCents"`
	CurrencyCode   string  `json:"currencyCode"`
}

// CartLineInput adds merchandise to a cart.
type CartLineInput struct {
	MerchandiseID string
	Quantity      int
}

// CartLineUpdate changes the quantity of an existing line.
// Quantity <= 0 removes the line.
type CartLineUpdate struct {
	ID       string
	Quantity int
}
