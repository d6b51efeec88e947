// Package cart exposes one Store contract with two implementations: a
// remote store proxying the platform's storefront cart mutations, and an
// in-memory mock used when storefront credentials are absent. The
// implementation is chosen once at startup.
package cart

import (
	"context"
	"io"
	"log"
	"strings"

	"featherlite/internal/domain"
)

// Store is the cart contract shared by the remote and mock paths.
// Fetch returns (nil, nil) when the cart is gone, which callers must keep
// distinct from a transient failure. Mutations on an unknown cart id fail
// with domain.ErrNotFound.
type Store interface {
	Create(ctx context.Context, lines []domain.CartLineInput) (*domain.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error)
	UpdateLines(ctx context.Context, cartID string, updates []domain.CartLineUpdate) (*domain.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) (*domain.Cart, error)
	Fetch(ctx context.Context, cartID string) (*domain.Cart, error)
}

// LineInput is the wire shape for adding merchandise. Quantity is a
// pointer so an absent field (defaults to 1) is distinguishable from an
// explicit zero, which is rejected.
type LineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      *int   `json:"quantity"`
}

// LineUpdate changes an existing line's quantity; zero or below removes
// the line, matching the platform contract.
type LineUpdate struct {
	ID       string `json:"id"`
	Quantity *int   `json:"quantity"`
}

// Service validates cart requests, delegates to the configured Store, and
// keeps an advisory snapshot of the latest cart so reads can degrade
// gracefully when the remote is briefly unreachable.
type Service struct {
	store     Store
	snapshots SnapshotStore
	logger    *log.Logger
}

func New(store Store, snapshots SnapshotStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{store: store, snapshots: snapshots, logger: logger}
}

func sanitizeLines(lines []LineInput) ([]domain.CartLineInput, error) {
	if len(lines) == 0 {
		return nil, domain.Invalid("request must include at least one line")
	}
	out := make([]domain.CartLineInput, 0, len(lines))
	for _, l := range lines {
		id := strings.TrimSpace(l.MerchandiseID)
		if id == "" {
			return nil, domain.Invalid("each line must include a merchandiseId")
		}
		qty := 1
		if l.Quantity != nil {
			qty = *l.Quantity
		}
		if qty <= 0 {
			return nil, domain.Invalid("quantity must be positive")
		}
		out = append(out, domain.CartLineInput{MerchandiseID: id, Quantity: qty})
	}
	return out, nil
}

func sanitizeUpdates(updates []LineUpdate) ([]domain.CartLineUpdate, error) {
	if len(updates) == 0 {
		return nil, domain.Invalid("request must include at least one line")
	}
	out := make([]domain.CartLineUpdate, 0, len(updates))
	for _, u := range updates {
		id := strings.TrimSpace(u.ID)
		if id == "" {
			return nil, domain.Invalid("each line must include an id")
		}
		qty := 1
		if u.Quantity != nil {
			qty = *u.Quantity
		}
		out = append(out, domain.CartLineUpdate{ID: id, Quantity: qty})
	}
	return out, nil
}

// Create makes a new cart from the given lines.
func (s *Service) Create(ctx context.Context, lines []LineInput) (*domain.Cart, error) {
	sanitized, err := sanitizeLines(lines)
	if err != nil {
		return nil, err
	}
	cart, err := s.store.Create(ctx, sanitized)
	if err != nil {
		return nil, err
	}
	s.saveSnapshot(ctx, cart)
	return cart, nil
}

// AddLines appends merchandise to an existing cart.
func (s *Service) AddLines(ctx context.Context, cartID string, lines []LineInput) (*domain.Cart, error) {
	if cartID == "" {
		return nil, domain.Invalid("cartId is required")
	}
	sanitized, err := sanitizeLines(lines)
	if err != nil {
		return nil, err
	}
	cart, err := s.store.AddLines(ctx, cartID, sanitized)
	if err != nil {
		return nil, err
	}
	s.saveSnapshot(ctx, cart)
	return cart, nil
}

// UpdateLines changes quantities; a quantity of zero or below removes the
// line.
func (s *Service) UpdateLines(ctx context.Context, cartID string, updates []LineUpdate) (*domain.Cart, error) {
	if cartID == "" {
		return nil, domain.Invalid("cartId is required")
	}
	sanitized, err := sanitizeUpdates(updates)
	if err != nil {
		return nil, err
	}
	cart, err := s.store.UpdateLines(ctx, cartID, sanitized)
	if err != nil {
		return nil, err
	}
	s.saveSnapshot(ctx, cart)
	return cart, nil
}

// RemoveLines deletes lines by id.
func (s *Service) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	if cartID == "" {
		return nil, domain.Invalid("cartId is required")
	}
	if len(lineIDs) == 0 {
		return nil, domain.Invalid("lineIds is required")
	}
	for _, id := range lineIDs {
		if strings.TrimSpace(id) == "" {
			return nil, domain.Invalid("lineIds must contain only valid values")
		}
	}
	cart, err := s.store.RemoveLines(ctx, cartID, lineIDs)
	if err != nil {
		return nil, err
	}
	s.saveSnapshot(ctx, cart)
	return cart, nil
}

// Clear removes every line from the cart.
func (s *Service) Clear(ctx context.Context, cartID string) (*domain.Cart, error) {
	if cartID == "" {
		return nil, domain.Invalid("cartId is required")
	}
	cart, err := s.store.Clear(ctx, cartID)
	if err != nil {
		return nil, err
	}
	s.saveSnapshot(ctx, cart)
	return cart, nil
}

// Fetch returns the cart, or nil when it no longer exists. On a transient
// store failure the advisory snapshot is served instead, when one exists;
// a successful fetch always supersedes the snapshot, and a confirmed
// not-found discards it so a gone cart cannot be resurrected later.
func (s *Service) Fetch(ctx context.Context, cartID string) (*domain.Cart, error) {
	if cartID == "" {
		return nil, domain.Invalid("cartId is required")
	}
	cart, err := s.store.Fetch(ctx, cartID)
	if err != nil {
		if s.snapshots != nil {
			snap, snapErr := s.snapshots.Load(ctx, cartID)
			if snapErr == nil && snap != nil {
				s.logger.Printf("cart: serving snapshot for cart_id=%s after fetch error=%v", cartID, err)
				return snap, nil
			}
		}
		return nil, err
	}
	if cart == nil {
		s.dropSnapshot(ctx, cartID)
		return nil, nil
	}
	s.saveSnapshot(ctx, cart)
	return cart, nil
}

func (s *Service) saveSnapshot(ctx context.Context, cart *domain.Cart) {
	if s.snapshots == nil || cart == nil {
		return
	}
	if err := s.snapshots.Save(ctx, cart); err != nil {
		s.logger.Printf("cart: snapshot save failed cart_id=%s error=%v", cart.ID, err)
	}
}

func (s *Service) dropSnapshot(ctx context.Context, cartID string) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Delete(ctx, cartID); err != nil {
		s.logger.Printf("cart: snapshot delete failed cart_id=%s error=%v", cartID, err)
	}
}
