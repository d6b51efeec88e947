package shopify

import (
	"context"
	"strings"

	"featherlite/internal/domain"
)

const cartFields = `
  id
  checkoutUrl
  cost {
    subtotalAmount {
      amount
      currencyCode
    }
  }
  lines(first: 250) {
    edges {
      node {
        id
        quantity
        cost {
          totalAmount {
            amount
            currencyCode
          }
        }
        merchandise {
          ... on ProductVariant {
            id
            sku
            title
            product {
              title
            }
          }
        }
      }
    }
  }
`

type cartMutationResult struct {
	Cart       *CartPayload `json:"cart"`
	UserErrors []userError  `json:"userErrors"`
}

func (r cartMutationResult) err() error {
	if len(r.UserErrors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(r.UserErrors))
	for _, e := range r.UserErrors {
		msgs = append(msgs, e.Message)
	}
	return domain.Upstream(strings.Join(msgs, ", "), nil)
}

func lineInputs(lines []domain.CartLineInput) []interface{} {
	out := make([]interface{}, 0, len(lines))
	for _, l := range lines {
		out = append(out, map[string]interface{}{
			"merchandiseId": l.MerchandiseID,
			"quantity":      l.Quantity,
		})
	}
	return out
}

// CreateCart runs the cartCreate mutation and returns the normalized cart.
func (c *Client) CreateCart(ctx context.Context, lines []domain.CartLineInput) (*domain.Cart, error) {
	var data struct {
		CartCreate cartMutationResult `json:"cartCreate"`
	}
	query := `mutation cartCreate($input: CartInput!) {
      cartCreate(input: $input) {
        cart {` + cartFields + `}
        userErrors { message }
      }
    }`
	if err := c.storefrontFetch(ctx, query, map[string]interface{}{
		"input": map[string]interface{}{"lines": lineInputs(lines)},
	}, &data); err != nil {
		return nil, err
	}
	if err := data.CartCreate.err(); err != nil {
		return nil, err
	}
	cart := NormalizeCart(data.CartCreate.Cart)
	if cart == nil {
		return nil, domain.Upstream("failed to create cart", nil)
	}
	return cart, nil
}

// AddLines runs cartLinesAdd.
func (c *Client) AddLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error) {
	var data struct {
		CartLinesAdd cartMutationResult `json:"cartLinesAdd"`
	}
	query := `mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
      cartLinesAdd(cartId: $cartId, lines: $lines) {
        cart {` + cartFields + `}
        userErrors { message }
      }
    }`
	if err := c.storefrontFetch(ctx, query, map[string]interface{}{
		"cartId": cartID,
		"lines":  lineInputs(lines),
	}, &data); err != nil {
		return nil, err
	}
	if err := data.CartLinesAdd.err(); err != nil {
		return nil, err
	}
	cart := NormalizeCart(data.CartLinesAdd.Cart)
	if cart == nil {
		return nil, domain.Upstream("failed to add lines to cart", nil)
	}
	return cart, nil
}

// UpdateLines runs cartLinesUpdate. The platform removes lines whose
// quantity drops to zero or below.
func (c *Client) UpdateLines(ctx context.Context, cartID string, updates []domain.CartLineUpdate) (*domain.Cart, error) {
	lines := make([]interface{}, 0, len(updates))
	for _, u := range updates {
		lines = append(lines, map[string]interface{}{"id": u.ID, "quantity": u.Quantity})
	}

	var data struct {
		CartLinesUpdate cartMutationResult `json:"cartLinesUpdate"`
	}
	query := `mutation cartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
      cartLinesUpdate(cartId: $cartId, lines: $lines) {
        cart {` + cartFields + `}
        userErrors { message }
      }
    }`
	if err := c.storefrontFetch(ctx, query, map[string]interface{}{
		"cartId": cartID,
		"lines":  lines,
	}, &data); err != nil {
		return nil, err
	}
	if err := data.CartLinesUpdate.err(); err != nil {
		return nil, err
	}
	cart := NormalizeCart(data.CartLinesUpdate.Cart)
	if cart == nil {
		return nil, domain.Upstream("failed to update cart lines", nil)
	}
	return cart, nil
}

// RemoveLines runs cartLinesRemove.
func (c *Client) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	var data struct {
		CartLinesRemove cartMutationResult `json:"cartLinesRemove"`
	}
	query := `mutation cartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
      cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
        cart {` + cartFields + `}
        userErrors { message }
      }
    }`
	if err := c.storefrontFetch(ctx, query, map[string]interface{}{
		"cartId":  cartID,
		"lineIds": lineIDs,
	}, &data); err != nil {
		return nil, err
	}
	if err := data.CartLinesRemove.err(); err != nil {
		return nil, err
	}
	cart := NormalizeCart(data.CartLinesRemove.Cart)
	if cart == nil {
		return nil, domain.Upstream("failed to remove cart lines", nil)
	}
	return cart, nil
}

// FetchCart queries a cart by id. A missing cart returns (nil, nil) so
// callers can distinguish "gone" from a transient failure.
func (c *Client) FetchCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	var data struct {
		Cart *CartPayload `json:"cart"`
	}
	query := `query cartQuery($cartId: ID!) {
      cart(id: $cartId) {` + cartFields + `}
    }`
	if err := c.storefrontFetch(ctx, query, map[string]interface{}{"cartId": cartID}, &data); err != nil {
		return nil, err
	}
	return NormalizeCart(data.Cart), nil
}
