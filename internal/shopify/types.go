package shopify

// Raw storefront GraphQL cart shapes. Quantity is left untyped because the
// platform has been observed returning both numbers and strings; the
// normalizer coerces it.

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type CartCost struct {
	SubtotalAmount *Money `json:"subtotalAmount"`
}

type LineCost struct {
	TotalAmount *Money `json:"totalAmount"`
}

type Merchandise struct {
	ID      string  `json:"id"`
	SKU     *string `json:"sku"`
	Title   *string `json:"title"`
	Product *struct {
		Title *string `json:"title"`
	} `json:"product"`
}

type CartLineNode struct {
	ID          string       `json:"id"`
	Quantity    interface{}  `json:"quantity"`
	Cost        *LineCost    `json:"cost"`
	Merchandise *Merchandise `json:"merchandise"`
}

type CartLineEdge struct {
	Node CartLineNode `json:"node"`
}

type CartLines struct {
	Edges []CartLineEdge `json:"edges"`
}

// CartPayload is the raw cart fragment returned by every cart query and
// mutation.
type CartPayload struct {
	ID          string     `json:"id"`
	CheckoutURL *string    `json:"checkoutUrl"`
	Cost        *CartCost  `json:"cost"`
	Lines       *CartLines `json:"lines"`
}

type userError struct {
	Message string `json:"message"`
}

// Admin REST API shapes, shared by the sync job and webhook ingestion.
// Monetary fields arrive as decimal strings; quantities as numbers.

type AdminVariant struct {
	ID                int64       `json:"id"`
	Title             string      `json:"title"`
	SKU               string      `json:"sku"`
	Price             interface{} `json:"price"`
	InventoryQuantity int         `json:"inventory_quantity"`
}

type AdminProduct struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Handle      string         `json:"handle"`
	BodyHTML    string         `json:"body_html"`
	ProductType string         `json:"product_type"`
	Status      string         `json:"status"`
	Variants    []AdminVariant `json:"variants"`
}

type AdminLineItem struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	SKU       string      `json:"sku"`
	Quantity  interface{} `json:"quantity"`
	Price     interface{} `json:"price"`
	VariantID int64       `json:"variant_id"`
}

type AdminOrder struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Currency          string          `json:"currency"`
	SubtotalPrice     interface{}     `json:"subtotal_price"`
	TotalPrice        interface{}     `json:"total_price"`
	FinancialStatus   string          `json:"financial_status"`
	FulfillmentStatus *string         `json:"fulfillment_status"`
	ProcessedAt       *string         `json:"processed_at"`
	LineItems         []AdminLineItem `json:"line_items"`
}
