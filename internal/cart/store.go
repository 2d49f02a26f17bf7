package cart

import (
	"fmt"
	"sync"

	"tour-booking-platform/internal/models"
	"tour-booking-platform/internal/storage"
)

// StorageKey is the shared durable key every instance reads and writes
// the cart snapshot under.
const StorageKey = "cart-store"

// Store is the cart state machine. Every transition replaces the whole
// in-memory snapshot under the lock and synchronously persists it, so
// no transition can be observed half-applied and the durable copy is
// never behind by more than the write in progress.
type Store struct {
	mu      sync.Mutex
	state   models.CartState
	storage storage.Store
}

// NewStore loads the persisted snapshot, if any, and returns the
// store. A corrupt snapshot is discarded rather than wedging startup.
func NewStore(st storage.Store) (*Store, error) {
	s := &Store{storage: st}
	data, ok, err := st.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}
	if ok {
		state, err := models.UnmarshalSnapshot(data)
		if err == nil {
			s.state = state
		}
	}
	return s, nil
}

// State returns a deep copy of the current snapshot.
func (s *Store) State() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// AddItem appends a cart line, or merges ticket quantities into the
// existing line when the schedule is already in the cart.
func (s *Store) AddItem(item models.CartItem) error {
	if item.TourScheduleID == "" || len(item.Tickets) == 0 {
		return models.ErrInvalidInput
	}
	return s.apply(func(state *models.CartState) error {
		for i := range state.Items {
			if state.Items[i].TourScheduleID == item.TourScheduleID {
				return state.Items[i].Merge(item)
			}
		}
		state.Items = append(state.Items, item)
		return nil
	})
}

// RemoveItem deletes the line for the given schedule.
func (s *Store) RemoveItem(tourScheduleID string) error {
	return s.apply(func(state *models.CartState) error {
		for i := range state.Items {
			if state.Items[i].TourScheduleID == tourScheduleID {
				state.Items = append(state.Items[:i], state.Items[i+1:]...)
				return nil
			}
		}
		return models.ErrCartItemNotFound
	})
}

// UpdateQuantity sets the quantity of one ticket type on a line. A
// zero quantity drops the selection; a line whose last selection is
// dropped is removed entirely.
func (s *Store) UpdateQuantity(tourScheduleID, ticketTypeID string, quantity int) error {
	if quantity < 0 {
		return models.ErrInvalidInput
	}
	return s.apply(func(state *models.CartState) error {
		for i := range state.Items {
			if state.Items[i].TourScheduleID != tourScheduleID {
				continue
			}
			item := &state.Items[i]
			for j := range item.Tickets {
				if item.Tickets[j].TicketTypeID != ticketTypeID {
					continue
				}
				if quantity == 0 {
					item.Tickets = append(item.Tickets[:j], item.Tickets[j+1:]...)
				} else {
					item.Tickets[j].Quantity = quantity
				}
				if len(item.Tickets) == 0 {
					state.Items = append(state.Items[:i], state.Items[i+1:]...)
				}
				return nil
			}
			return models.ErrCartItemNotFound
		}
		return models.ErrCartItemNotFound
	})
}

// SetPaymentItem moves the line for the given schedule out of the cart
// and marks it as awaiting external payment for the given order. Only
// one payment can be in flight at a time.
func (s *Store) SetPaymentItem(tourScheduleID, orderID string) error {
	return s.apply(func(state *models.CartState) error {
		if state.PaymentItem != nil {
			return models.ErrPaymentInFlight
		}
		for i := range state.Items {
			if state.Items[i].TourScheduleID == tourScheduleID {
				state.PaymentItem = &models.PaymentItem{Item: state.Items[i], OrderID: orderID}
				state.Items = append(state.Items[:i], state.Items[i+1:]...)
				return nil
			}
		}
		return models.ErrCartItemNotFound
	})
}

// RemovePaymentItem clears the in-flight payment item. With
// keepAsCartItem the item goes back into the cart (payment cancelled,
// user may retry later); without it the item is discarded (payment
// succeeded or was abandoned).
func (s *Store) RemovePaymentItem(keepAsCartItem bool) error {
	return s.apply(func(state *models.CartState) error {
		if state.PaymentItem == nil {
			return models.ErrNoPaymentItem
		}
		restored := state.PaymentItem.Item
		state.PaymentItem = nil
		if !keepAsCartItem {
			return nil
		}
		for i := range state.Items {
			if state.Items[i].TourScheduleID == restored.TourScheduleID {
				return state.Items[i].Merge(restored)
			}
		}
		state.Items = append(state.Items, restored)
		return nil
	})
}

// Clear resets the cart to the empty state.
func (s *Store) Clear() error {
	return s.apply(func(state *models.CartState) error {
		*state = models.CartState{}
		return nil
	})
}

// SetState wholesale-replaces the in-memory snapshot with one read
// from durable storage. Only the syncer calls this; it does not
// persist, because the snapshot it applies is the persisted value.
func (s *Store) SetState(state models.CartState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
}

// apply runs one transition: clone, mutate, validate, persist, then
// swap the in-memory state. The durable write happening before the
// swap means a failed write leaves the old state fully intact.
func (s *Store) apply(mutate func(*models.CartState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := mutate(&next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("cart transition produced invalid state: %w", err)
	}
	data, err := next.MarshalSnapshot()
	if err != nil {
		return err
	}
	if err := s.storage.Set(StorageKey, data); err != nil {
		return fmt.Errorf("failed to persist cart snapshot: %w", err)
	}
	s.state = next
	return nil
}
