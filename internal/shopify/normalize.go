package shopify

import (
	"math"
	"strconv"

	"featherlite/internal/domain"
)

// defaultVariantTitle is the sentinel the platform uses for single-variant
// products; it is omitted from composed line titles.
const defaultVariantTitle = "Default Title"

// NormalizeCart converts a raw storefront cart payload into the canonical
// cart shape. A nil payload normalizes to nil, which callers must treat as
// "cart not found" rather than an empty cart.
func NormalizeCart(raw *CartPayload) *domain.Cart {
	if raw == nil {
		return nil
	}

	var edges []CartLineEdge
	if raw.Lines != nil {
		edges = raw.Lines.Edges
	}

	items := make([]domain.CartLine, 0, len(edges))
	for _, edge := range edges {
		node := edge.Node
		quantity := coerceQuantity(node.Quantity)

		var totalAmount string
		currency := "USD"
		if node.Cost != nil && node.Cost.TotalAmount != nil {
			totalAmount = node.Cost.TotalAmount.Amount
			if node.Cost.TotalAmount.CurrencyCode != "" {
				currency = node.Cost.TotalAmount.CurrencyCode
			}
		}
		lineTotalCents := parseAmountCents(totalAmount)

		var unitPriceCents int64
		if quantity > 0 {
			unitPriceCents = int64(math.Round(float64(lineTotalCents) / float64(quantity)))
		}

		merchandiseID := ""
		var sku *string
		title := "Unknown item"
		if m := node.Merchandise; m != nil {
			merchandiseID = m.ID
			sku = m.SKU
			title = composeTitle(m)
		}

		items = append(items, domain.CartLine{
			ID:             node.ID,
			MerchandiseID:  merchandiseID,
			Title:          title,
			Quantity:       quantity,
			SKU:            sku,
			UnitPriceCents: unitPriceCents,
			LineTotalCents: lineTotalCents,
			CurrencyCode:   currency,
		})
	}

	var subtotalCents int64
	currencyCode := ""
	if raw.Cost != nil && raw.Cost.SubtotalAmount != nil {
		subtotalCents = parseAmountCents(raw.Cost.SubtotalAmount.Amount)
		currencyCode = raw.Cost.SubtotalAmount.CurrencyCode
	}
	if currencyCode == "" {
		if len(items) > 0 {
			currencyCode = items[0].CurrencyCode
		} else {
			currencyCode = "USD"
		}
	}

	return &domain.Cart{
		ID:            raw.ID,
		CheckoutURL:   raw.CheckoutURL,
		Items:         items,
		SubtotalCents: subtotalCents,
		CurrencyCode:  currencyCode,
	}
}

// composeTitle builds "{product} – {variant}", dropping the variant suffix
// for the platform's sentinel default title.
func composeTitle(m *Merchandise) string {
	productTitle := ""
	if m.Product != nil && m.Product.Title != nil {
		productTitle = *m.Product.Title
	}
	variantTitle := ""
	if m.Title != nil {
		variantTitle = *m.Title
	}

	if productTitle == "" {
		if variantTitle != "" {
			return variantTitle
		}
		return "Unknown item"
	}
	if variantTitle != "" && variantTitle != defaultVariantTitle {
		return productTitle + " – " + variantTitle
	}
	return productTitle
}

// coerceQuantity accepts the loosely-typed quantity field and clamps it to
// a non-negative integer. Malformed input contributes nothing to the cart
// instead of failing the whole normalization.
func coerceQuantity(v interface{}) int {
	switch q := v.(type) {
	case float64:
		if q < 0 || math.IsNaN(q) {
			return 0
		}
		return int(q)
	case int:
		if q < 0 {
			return 0
		}
		return q
	case string:
		parsed, err := strconv.ParseFloat(q, 64)
		if err != nil || parsed < 0 {
			return 0
		}
		return int(parsed)
	default:
		return 0
	}
}

// parseAmountCents parses a decimal money string and rounds to integer
// cents. Unparseable input yields 0.
func parseAmountCents(amount string) int64 {
	if amount == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(amount, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return int64(math.Round(parsed * 100))
}

// ToQuantity exposes the quantity coercion for admin API payloads, which
// share the loose typing of the storefront cart.
func ToQuantity(v interface{}) int { return coerceQuantity(v) }

// ToCents is parseAmountCents extended to the loosely-typed money fields of
// the admin API (numbers or decimal strings).
func ToCents(v interface{}) int64 {
	switch amount := v.(type) {
	case float64:
		return int64(math.Round(amount * 100))
	case string:
		return parseAmountCents(amount)
	default:
		return 0
	}
}
