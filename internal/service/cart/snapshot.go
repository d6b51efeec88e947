package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"featherlite/internal/domain"
	"github.com/redis/go-redis/v9"
)

const snapshotTTL = 24 * time.Hour

// SnapshotStore holds the advisory copy of the latest cart state per cart
// id. Load returns (nil, nil) when no snapshot exists.
type SnapshotStore interface {
	Save(ctx context.Context, cart *domain.Cart) error
	Load(ctx context.Context, cartID string) (*domain.Cart, error)
	Delete(ctx context.Context, cartID string) error
}

type memorySnapshot struct {
	cart    domain.Cart
	expires time.Time
}

// MemorySnapshots is the default single-process snapshot store.
type MemorySnapshots struct {
	mu   sync.Mutex
	data map[string]memorySnapshot
	now  func() time.Time
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{data: make(map[string]memorySnapshot), now: time.Now}
}

func (s *MemorySnapshots) Save(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[cart.ID] = memorySnapshot{cart: *copyCart(cart), expires: s.now().Add(snapshotTTL)}
	return nil
}

func (s *MemorySnapshots) Load(_ context.Context, cartID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.data[cartID]
	if !ok {
		return nil, nil
	}
	if snap.expires.Before(s.now()) {
		delete(s.data, cartID)
		return nil, nil
	}
	return copyCart(&snap.cart), nil
}

func (s *MemorySnapshots) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, cartID)
	return nil
}

// RedisSnapshots shares snapshots across processes.
type RedisSnapshots struct {
	client *redis.Client
	prefix string
}

func NewRedisSnapshots(client *redis.Client) *RedisSnapshots {
	return &RedisSnapshots{client: client, prefix: "featherlite:cart-snapshot:"}
}

func (s *RedisSnapshots) Save(ctx context.Context, cart *domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+cart.ID, raw, snapshotTTL).Err()
}

func (s *RedisSnapshots) Load(ctx context.Context, cartID string) (*domain.Cart, error) {
	raw, err := s.client.Get(ctx, s.prefix+cartID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *RedisSnapshots) Delete(ctx context.Context, cartID string) error {
	return s.client.Del(ctx, s.prefix+cartID).Err()
}
