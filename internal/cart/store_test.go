package cart

import (
	"context"
	"errors"
	"testing"

	"tour-booking-platform/internal/models"
	"tour-booking-platform/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, storage.Store) {
	t.Helper()
	kv, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	store, err := NewStore(kv)
	require.NoError(t, err)
	return store, kv
}

func safariItem(scheduleID string, adults int) models.CartItem {
	return models.CartItem{
		TourScheduleID: scheduleID,
		TourID:         "tour-1",
		TourTitle:      "Mara Safari",
		ScheduleDate:   "2026-09-12",
		Tickets: []models.TicketSelection{{
			TicketTypeID: "tt-adult",
			Kind:         "adult",
			Quantity:     adults,
			UnitPrice:    decimal.NewFromInt(5000),
		}},
	}
}

func TestAddItemMergesSameSchedule(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.AddItem(safariItem("sched-1", 2)))
	require.NoError(t, store.AddItem(safariItem("sched-1", 1)))

	state := store.State()
	require.Len(t, state.Items, 1, "same schedule must merge into one line")
	assert.Equal(t, 3, state.Items[0].TotalQuantity())
}

func TestAddItemSeparateSchedules(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.AddItem(safariItem("sched-1", 1)))
	require.NoError(t, store.AddItem(safariItem("sched-2", 1)))

	assert.Len(t, store.State().Items, 2)
}

func TestAddItemRejectsInvalid(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.AddItem(models.CartItem{TourScheduleID: "sched-1"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	err = store.AddItem(models.CartItem{Tickets: safariItem("x", 1).Tickets})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdateQuantity(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddItem(safariItem("sched-1", 2)))

	require.NoError(t, store.UpdateQuantity("sched-1", "tt-adult", 5))
	assert.Equal(t, 5, store.State().Items[0].Tickets[0].Quantity)
}

func TestUpdateQuantityZeroDropsLine(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddItem(safariItem("sched-1", 2)))

	require.NoError(t, store.UpdateQuantity("sched-1", "tt-adult", 0))
	assert.Empty(t, store.State().Items, "dropping the last selection removes the line")
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.UpdateQuantity("nope", "tt-adult", 1)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddItem(safariItem("sched-1", 1)))

	require.NoError(t, store.RemoveItem("sched-1"))
	assert.True(t, store.State().IsEmpty())

	assert.ErrorIs(t, store.RemoveItem("sched-1"), models.ErrCartItemNotFound)
}

func TestSetPaymentItemMovesLineAside(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddItem(safariItem("sched-1", 2)))
	require.NoError(t, store.AddItem(safariItem("sched-2", 1)))

	require.NoError(t, store.SetPaymentItem("sched-1", "order-9"))

	state := store.State()
	require.NotNil(t, state.PaymentItem)
	assert.Equal(t, "order-9", state.PaymentItem.OrderID)
	assert.Equal(t, "sched-1", state.PaymentItem.Item.TourScheduleID)
	require.Len(t, state.Items, 1, "held line must leave the cart")
	assert.Equal(t, "sched-2", state.Items[0].TourScheduleID)
}

func TestSetPaymentItemOnlyOneInFlight(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddItem(safariItem("sched-1", 1)))
	require.NoError(t, store.AddItem(safariItem("sched-2", 1)))

	require.NoError(t, store.SetPaymentItem("sched-1", "order-1"))
	err := store.SetPaymentItem("sched-2", "order-2")
	assert.ErrorIs(t, err, models.ErrPaymentInFlight)
}

func TestRemovePaymentItemRestores(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddItem(safariItem("sched-1", 2)))
	require.NoError(t, store.SetPaymentItem("sched-1", "order-1"))

	require.NoError(t, store.RemovePaymentItem(true))

	state := store.State()
	assert.Nil(t, state.PaymentItem)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].TotalQuantity())
}

func TestRemovePaymentItemRestoreMergesBack(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddItem(safariItem("sched-1", 2)))
	require.NoError(t, store.SetPaymentItem("sched-1", "order-1"))

	// Same schedule re-added while the payment was pending.
	require.NoError(t, store.AddItem(safariItem("sched-1", 1)))

	require.NoError(t, store.RemovePaymentItem(true))

	state := store.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].TotalQuantity())
}

func TestRemovePaymentItemDiscards(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddItem(safariItem("sched-1", 2)))
	require.NoError(t, store.SetPaymentItem("sched-1", "order-1"))

	require.NoError(t, store.RemovePaymentItem(false))
	assert.True(t, store.State().IsEmpty())
}

func TestRemovePaymentItemWithoutHold(t *testing.T) {
	store, _ := newTestStore(t)
	assert.ErrorIs(t, store.RemovePaymentItem(true), models.ErrNoPaymentItem)
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddItem(safariItem("sched-1", 1)))
	require.NoError(t, store.SetPaymentItem("sched-1", "order-1"))

	require.NoError(t, store.Clear())
	assert.True(t, store.State().IsEmpty())
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	kv, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	store, err := NewStore(kv)
	require.NoError(t, err)
	require.NoError(t, store.AddItem(safariItem("sched-1", 2)))
	require.NoError(t, store.SetPaymentItem("sched-1", "order-1"))

	reloaded, err := NewStore(kv)
	require.NoError(t, err)

	state := reloaded.State()
	require.NotNil(t, state.PaymentItem)
	assert.Equal(t, "order-1", state.PaymentItem.OrderID)
}

func TestCorruptSnapshotIsDiscarded(t *testing.T) {
	kv, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, kv.Set(StorageKey, []byte("{garbage")))

	store, err := NewStore(kv)
	require.NoError(t, err)
	assert.True(t, store.State().IsEmpty())
}

func TestFailedPersistLeavesStateIntact(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddItem(safariItem("sched-1", 2)))

	store.storage = failingStore{}
	err := store.AddItem(safariItem("sched-2", 1))
	require.Error(t, err)

	state := store.State()
	require.Len(t, state.Items, 1, "failed write must not half-apply")
	assert.Equal(t, "sched-1", state.Items[0].TourScheduleID)
}

type failingStore struct{}

func (failingStore) Get(string) ([]byte, bool, error) { return nil, false, nil }
func (failingStore) Set(string, []byte) error         { return errors.New("disk full") }
func (failingStore) Delete(string) error              { return errors.New("disk full") }
func (failingStore) Watch(ctx context.Context) (<-chan storage.Event, error) {
	return nil, errors.New("no watch")
}
func (failingStore) Close() error { return nil }
