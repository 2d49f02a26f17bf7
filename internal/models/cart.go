package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// TicketSelection is one ticket type within a cart line, with the unit
// price captured at the time the tickets were added.
type TicketSelection struct {
	TicketTypeID string          `json:"ticketTypeId"`
	Kind         string          `json:"kind"` // e.g. "adult", "child"
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

// Subtotal returns price * quantity for this selection.
func (t TicketSelection) Subtotal() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// CartItem is one line of the cart: a tour schedule plus the ticket
// selections for it. Identity is the schedule ID; adding tickets for a
// schedule that is already in the cart merges quantities instead of
// creating a second line.
type CartItem struct {
	TourScheduleID string            `json:"tourScheduleId"`
	TourID         string            `json:"tourId"`
	TourTitle      string            `json:"tourTitle"`
	ScheduleDate   string            `json:"scheduleDate"`
	Tickets        []TicketSelection `json:"tickets"`
}

// Subtotal returns the total cost of all ticket selections on this line.
func (i CartItem) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, t := range i.Tickets {
		total = total.Add(t.Subtotal())
	}
	return total
}

// TotalQuantity returns the number of tickets across all selections.
func (i CartItem) TotalQuantity() int {
	n := 0
	for _, t := range i.Tickets {
		n += t.Quantity
	}
	return n
}

// Merge folds another item's ticket selections into this one. Both
// items must refer to the same tour schedule. Selections with the same
// ticket type merge quantities; the existing price snapshot wins.
func (i *CartItem) Merge(other CartItem) error {
	if other.TourScheduleID != i.TourScheduleID {
		return fmt.Errorf("cannot merge cart items for different schedules: %s vs %s",
			i.TourScheduleID, other.TourScheduleID)
	}
	for _, sel := range other.Tickets {
		found := false
		for idx := range i.Tickets {
			if i.Tickets[idx].TicketTypeID == sel.TicketTypeID {
				i.Tickets[idx].Quantity += sel.Quantity
				found = true
				break
			}
		}
		if !found {
			i.Tickets = append(i.Tickets, sel)
		}
	}
	return nil
}

func (i CartItem) clone() CartItem {
	out := i
	out.Tickets = make([]TicketSelection, len(i.Tickets))
	copy(out.Tickets, i.Tickets)
	return out
}

// PaymentItem is a cart item set aside while an external payment for it
// is in flight. It carries the order reference created at checkout so
// the payment result can be matched back.
type PaymentItem struct {
	Item    CartItem `json:"item"`
	OrderID string   `json:"orderId,omitempty"`
}

// CartState is the full persisted cart snapshot: the ordered cart lines
// plus the optional in-flight payment item. The payment item is never
// also present in Items.
type CartState struct {
	Items       []CartItem   `json:"items"`
	PaymentItem *PaymentItem `json:"paymentItem,omitempty"`
}

// Validate checks the snapshot invariants: no two lines share a
// schedule ID, no line has a non-positive quantity, and the payment
// item does not double-count a line still in Items.
func (s CartState) Validate() error {
	seen := make(map[string]bool, len(s.Items))
	for _, item := range s.Items {
		if item.TourScheduleID == "" {
			return errors.New("cart item missing tour schedule ID")
		}
		if seen[item.TourScheduleID] {
			return fmt.Errorf("duplicate cart item for schedule %s", item.TourScheduleID)
		}
		seen[item.TourScheduleID] = true
		for _, sel := range item.Tickets {
			if sel.Quantity <= 0 {
				return fmt.Errorf("invalid quantity %d for ticket type %s", sel.Quantity, sel.TicketTypeID)
			}
		}
	}
	if s.PaymentItem != nil && seen[s.PaymentItem.Item.TourScheduleID] {
		return fmt.Errorf("payment item for schedule %s is still in the cart", s.PaymentItem.Item.TourScheduleID)
	}
	return nil
}

// Total returns the combined subtotal of all cart lines, excluding the
// in-flight payment item.
func (s CartState) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsEmpty reports whether there is nothing in the cart and no payment
// in flight.
func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0 && s.PaymentItem == nil
}

// Clone returns a deep copy of the snapshot so callers can hand it out
// without sharing slices with the live state.
func (s CartState) Clone() CartState {
	out := CartState{}
	if s.Items != nil {
		out.Items = make([]CartItem, len(s.Items))
		for i, item := range s.Items {
			out.Items[i] = item.clone()
		}
	}
	if s.PaymentItem != nil {
		pi := PaymentItem{Item: s.PaymentItem.Item.clone(), OrderID: s.PaymentItem.OrderID}
		out.PaymentItem = &pi
	}
	return out
}

// MarshalSnapshot serializes the snapshot for durable storage.
func (s CartState) MarshalSnapshot() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot parses a stored snapshot and validates it.
func UnmarshalSnapshot(data []byte) (CartState, error) {
	var state CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return CartState{}, fmt.Errorf("failed to unmarshal cart snapshot: %w", err)
	}
	if err := state.Validate(); err != nil {
		return CartState{}, err
	}
	return state, nil
}
