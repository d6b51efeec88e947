package cart

import (
	"context"

	"featherlite/internal/domain"
	"featherlite/internal/shopify"
)

// RemoteStore proxies every operation to the platform storefront cart API.
// Responses come back through the normalizer, so the Store contract
// (canonical cart shape, nil for a missing cart) holds on this path too.
type RemoteStore struct {
	client *shopify.Client
}

func NewRemoteStore(client *shopify.Client) *RemoteStore {
	return &RemoteStore{client: client}
}

func (r *RemoteStore) Create(ctx context.Context, lines []domain.CartLineInput) (*domain.Cart, error) {
	return r.client.CreateCart(ctx, lines)
}

func (r *RemoteStore) AddLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error) {
	return r.client.AddLines(ctx, cartID, lines)
}

func (r *RemoteStore) UpdateLines(ctx context.Context, cartID string, updates []domain.CartLineUpdate) (*domain.Cart, error) {
	return r.client.UpdateLines(ctx, cartID, updates)
}

func (r *RemoteStore) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	return r.client.RemoveLines(ctx, cartID, lineIDs)
}

// Clear removes all lines by first fetching the cart to learn its line ids.
func (r *RemoteStore) Clear(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := r.client.FetchCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrNotFound
	}
	if len(cart.Items) == 0 {
		return cart, nil
	}
	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ID)
	}
	return r.client.RemoveLines(ctx, cartID, ids)
}

func (r *RemoteStore) Fetch(ctx context.Context, cartID string) (*domain.Cart, error) {
	return r.client.FetchCart(ctx, cartID)
}
