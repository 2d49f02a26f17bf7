package stores

import (
	"context"
	"sync"

	"tour-booking-platform/internal/auth"
	"tour-booking-platform/internal/models"
)

// OrdersPageSize is how many orders each "load more" reveals.
const OrdersPageSize = 6

// OrderFetcher is the slice of the API client the order store needs.
type OrderFetcher interface {
	Orders(ctx context.Context, ac *auth.Context) ([]models.Order, error)
	OrderDetail(ctx context.Context, ac *auth.Context, orderID string) (*models.Order, error)
}

// OrderStore fetches each user's full order history once and pages it
// in memory. Orders are server-owned; the only mutation is a re-fetch.
// Caches are keyed by session token so concurrent users never see each
// other's history.
type OrderStore struct {
	client OrderFetcher

	mu    sync.Mutex
	users map[string]*orderCache
}

type orderCache struct {
	orders  []models.Order
	visible int
	loaded  bool
	lastErr error
}

// NewOrderStore creates an order store over the API client.
func NewOrderStore(client OrderFetcher) *OrderStore {
	return &OrderStore{client: client, users: make(map[string]*orderCache)}
}

// cache returns the per-user cache for ac. Caller holds the lock.
func (s *OrderStore) cache(ac *auth.Context) *orderCache {
	key := ""
	if ac != nil {
		key = ac.SessionToken
	}
	c, ok := s.users[key]
	if !ok {
		c = &orderCache{}
		s.users[key] = c
	}
	return c
}

// Load fetches the user's order list on first call; later calls are
// no-ops unless Refresh was called. Errors are recorded as store state
// rather than crashing the caller's page.
func (s *OrderStore) Load(ctx context.Context, ac *auth.Context) error {
	s.mu.Lock()
	if s.cache(ac).loaded {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	orders, err := s.client.Orders(ctx, ac)

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cache(ac)
	if err != nil {
		c.lastErr = err
		return err
	}
	c.orders = orders
	c.visible = OrdersPageSize
	if c.visible > len(orders) {
		c.visible = len(orders)
	}
	c.loaded = true
	c.lastErr = nil
	return nil
}

// Refresh forces the user's next Load to re-fetch.
func (s *OrderStore) Refresh(ac *auth.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache(ac).loaded = false
}

// Visible returns the user's currently revealed page slice.
func (s *OrderStore) Visible(ac *auth.Context) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cache(ac)
	out := make([]models.Order, c.visible)
	copy(out, c.orders[:c.visible])
	return out
}

// LoadMore reveals another page of the user's cached list.
func (s *OrderStore) LoadMore(ac *auth.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cache(ac)
	c.visible += OrdersPageSize
	if c.visible > len(c.orders) {
		c.visible = len(c.orders)
	}
}

// HasMore reports whether more cached orders remain hidden.
func (s *OrderStore) HasMore(ac *auth.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cache(ac)
	return c.visible < len(c.orders)
}

// Err returns the user's last fetch error, if any.
func (s *OrderStore) Err(ac *auth.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache(ac).lastErr
}
