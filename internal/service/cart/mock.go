package cart

import (
	"context"
	"fmt"
	"sync"

	"featherlite/internal/catalog"
	"featherlite/internal/domain"
	"github.com/google/uuid"
)

// MockStore is the in-process cart used when storefront credentials are
// absent. Behavior mirrors the remote contract: unknown cart ids fail
// mutations with ErrNotFound, updating a line to quantity <= 0 removes it,
// and Fetch on a missing cart returns nil. Merchandise is resolved against
// the static fallback catalog so mock carts still carry real titles and
// prices.
type MockStore struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewMockStore() *MockStore {
	return &MockStore{carts: make(map[string]*domain.Cart)}
}

func (m *MockStore) Create(ctx context.Context, lines []domain.CartLineInput) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart := &domain.Cart{
		ID:           fmt.Sprintf("gid://featherlite/Cart/%s", uuid.NewString()),
		Items:        []domain.CartLine{},
		CurrencyCode: "USD",
	}
	if err := m.addLines(cart, lines); err != nil {
		return nil, err
	}
	m.carts[cart.ID] = cart
	return copyCart(cart), nil
}

func (m *MockStore) AddLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[cartID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := m.addLines(cart, lines); err != nil {
		return nil, err
	}
	return copyCart(cart), nil
}

func (m *MockStore) UpdateLines(ctx context.Context, cartID string, updates []domain.CartLineUpdate) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[cartID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	// Check every line id up front so a rejected update leaves the cart
	// untouched.
	for _, update := range updates {
		if findLine(cart, update.ID) < 0 {
			return nil, domain.ErrNotFound
		}
	}
	for _, update := range updates {
		idx := findLine(cart, update.ID)
		if idx < 0 {
			continue
		}
		if update.Quantity <= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			continue
		}
		line := &cart.Items[idx]
		line.Quantity = update.Quantity
		line.LineTotalCents = line.UnitPriceCents * int64(update.Quantity)
	}
	recalc(cart)
	return copyCart(cart), nil
}

func (m *MockStore) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[cartID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, id := range lineIDs {
		if idx := findLine(cart, id); idx >= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		}
	}
	recalc(cart)
	return copyCart(cart), nil
}

func (m *MockStore) Clear(ctx context.Context, cartID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[cartID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cart.Items = []domain.CartLine{}
	recalc(cart)
	return copyCart(cart), nil
}

func (m *MockStore) Fetch(ctx context.Context, cartID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[cartID]
	if !ok {
		return nil, nil
	}
	return copyCart(cart), nil
}

// addLines merges added merchandise into existing lines by merchandise id.
// Every input is resolved before anything is applied, so a rejected request
// leaves the stored cart untouched; the remote mutation is all-or-nothing
// and the mock keeps that contract. Callers hold the lock.
func (m *MockStore) addLines(cart *domain.Cart, lines []domain.CartLineInput) error {
	entries := make(map[string]catalog.Entry, len(lines))
	var missing []string
	seen := make(map[string]bool, len(lines))
	for _, input := range lines {
		if seen[input.MerchandiseID] {
			continue
		}
		seen[input.MerchandiseID] = true
		if findLineByMerchandise(cart, input.MerchandiseID) >= 0 {
			continue
		}
		entry, ok := catalog.VariantByMerchandiseID(input.MerchandiseID)
		if !ok {
			missing = append(missing, input.MerchandiseID)
			continue
		}
		entries[input.MerchandiseID] = entry
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Message: "unknown merchandise", Missing: missing}
	}

	for _, input := range lines {
		if idx := findLineByMerchandise(cart, input.MerchandiseID); idx >= 0 {
			line := &cart.Items[idx]
			line.Quantity += input.Quantity
			line.LineTotalCents = line.UnitPriceCents * int64(line.Quantity)
			continue
		}

		entry := entries[input.MerchandiseID]
		sku := entry.Variant.SKU
		title := entry.Product.Name
		if entry.Variant.Name != "" && entry.Variant.Name != "Default" {
			title = title + " – " + entry.Variant.Name
		}
		cart.Items = append(cart.Items, domain.CartLine{
			ID:             fmt.Sprintf("gid://featherlite/CartLine/%s", uuid.NewString()),
			MerchandiseID:  input.MerchandiseID,
			Title:          title,
			Quantity:       input.Quantity,
			SKU:            &sku,
			UnitPriceCents: entry.Variant.PriceCents,
			LineTotalCents: entry.Variant.PriceCents * int64(input.Quantity),
			CurrencyCode:   "USD",
		})
	}
	recalc(cart)
	return nil
}

func findLine(cart *domain.Cart, lineID string) int {
	for i := range cart.Items {
		if cart.Items[i].ID == lineID {
			return i
		}
	}
	return -1
}

func findLineByMerchandise(cart *domain.Cart, merchandiseID string) int {
	for i := range cart.Items {
		if cart.Items[i].MerchandiseID == merchandiseID {
			return i
		}
	}
	return -1
}

func recalc(cart *domain.Cart) {
	var subtotal int64
	for _, line := range cart.Items {
		subtotal += line.LineTotalCents
	}
	cart.SubtotalCents = subtotal
}

// copyCart returns a detached copy so callers cannot mutate store state.
func copyCart(cart *domain.Cart) *domain.Cart {
	out := *cart
	out.Items = make([]domain.CartLine, len(cart.Items))
	copy(out.Items, cart.Items)
	return &out
}
