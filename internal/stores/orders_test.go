package stores

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tour-booking-platform/internal/auth"
	"tour-booking-platform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderFetcher struct {
	orders []models.Order
	err    error
	calls  int

	// When set, the fetch result depends on the caller's token.
	byToken map[string][]models.Order
}

func (f *fakeOrderFetcher) Orders(ctx context.Context, ac *auth.Context) ([]models.Order, error) {
	f.calls++
	if f.byToken != nil && ac != nil {
		return f.byToken[ac.SessionToken], f.err
	}
	return f.orders, f.err
}

func (f *fakeOrderFetcher) OrderDetail(ctx context.Context, ac *auth.Context, orderID string) (*models.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			return &f.orders[i], nil
		}
	}
	return nil, models.ErrOrderNotFound
}

func orderList(n int) []models.Order {
	out := make([]models.Order, n)
	for i := range out {
		out[i] = models.Order{ID: fmt.Sprintf("order-%d", i)}
	}
	return out
}

func TestOrderStoreLoadFetchesOnce(t *testing.T) {
	fetcher := &fakeOrderFetcher{orders: orderList(10)}
	store := NewOrderStore(fetcher)
	ctx := context.Background()
	ac := &auth.Context{SessionToken: "tok"}

	require.NoError(t, store.Load(ctx, ac))
	require.NoError(t, store.Load(ctx, ac))
	assert.Equal(t, 1, fetcher.calls, "second load must serve from cache")
}

func TestOrderStorePaging(t *testing.T) {
	store := NewOrderStore(&fakeOrderFetcher{orders: orderList(10)})
	ac := &auth.Context{SessionToken: "tok"}
	require.NoError(t, store.Load(context.Background(), ac))

	assert.Len(t, store.Visible(ac), OrdersPageSize)
	assert.True(t, store.HasMore(ac))

	store.LoadMore(ac)
	assert.Len(t, store.Visible(ac), 10)
	assert.False(t, store.HasMore(ac))

	// Extra LoadMore calls are clamped.
	store.LoadMore(ac)
	assert.Len(t, store.Visible(ac), 10)
}

func TestOrderStoreShortList(t *testing.T) {
	store := NewOrderStore(&fakeOrderFetcher{orders: orderList(3)})
	ac := &auth.Context{SessionToken: "tok"}
	require.NoError(t, store.Load(context.Background(), ac))

	assert.Len(t, store.Visible(ac), 3)
	assert.False(t, store.HasMore(ac))
}

func TestOrderStoreLoadError(t *testing.T) {
	fetchErr := errors.New("backend down")
	fetcher := &fakeOrderFetcher{err: fetchErr}
	store := NewOrderStore(fetcher)
	ac := &auth.Context{SessionToken: "tok"}

	err := store.Load(context.Background(), ac)
	require.Error(t, err)
	assert.ErrorIs(t, store.Err(ac), fetchErr)
	assert.Empty(t, store.Visible(ac))

	// A failed load is not cached; the next load retries.
	fetcher.err = nil
	fetcher.orders = orderList(2)
	require.NoError(t, store.Load(context.Background(), ac))
	assert.NoError(t, store.Err(ac))
	assert.Len(t, store.Visible(ac), 2)
}

func TestOrderStoreRefresh(t *testing.T) {
	fetcher := &fakeOrderFetcher{orders: orderList(2)}
	store := NewOrderStore(fetcher)
	ac := &auth.Context{SessionToken: "tok"}
	require.NoError(t, store.Load(context.Background(), ac))

	fetcher.orders = orderList(5)
	store.Refresh(ac)
	require.NoError(t, store.Load(context.Background(), ac))

	assert.Equal(t, 2, fetcher.calls)
	assert.Len(t, store.Visible(ac), 5)
}

func TestOrderStoreIsolatesSessions(t *testing.T) {
	fetcher := &fakeOrderFetcher{byToken: map[string][]models.Order{
		"alice": {{ID: "alice-order"}},
		"bob":   {{ID: "bob-order"}},
	}}
	store := NewOrderStore(fetcher)
	alice := &auth.Context{SessionToken: "alice"}
	bob := &auth.Context{SessionToken: "bob"}

	require.NoError(t, store.Load(context.Background(), alice))
	require.NoError(t, store.Load(context.Background(), bob))

	aliceOrders := store.Visible(alice)
	require.Len(t, aliceOrders, 1)
	assert.Equal(t, "alice-order", aliceOrders[0].ID)

	bobOrders := store.Visible(bob)
	require.Len(t, bobOrders, 1)
	assert.Equal(t, "bob-order", bobOrders[0].ID)

	// Refreshing one session leaves the other's cache intact.
	store.Refresh(alice)
	require.NoError(t, store.Load(context.Background(), alice))
	assert.Len(t, store.Visible(bob), 1)
	assert.Equal(t, 3, fetcher.calls)
}
