package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func adultChildItem(scheduleID string, adult, child int) CartItem {
	item := CartItem{
		TourScheduleID: scheduleID,
		TourID:         "tour-1",
		TourTitle:      "Mara Safari",
		ScheduleDate:   "2026-09-12",
	}
	if adult > 0 {
		item.Tickets = append(item.Tickets, TicketSelection{
			TicketTypeID: "tt-adult",
			Kind:         "adult",
			Quantity:     adult,
			UnitPrice:    decimal.NewFromInt(5000),
		})
	}
	if child > 0 {
		item.Tickets = append(item.Tickets, TicketSelection{
			TicketTypeID: "tt-child",
			Kind:         "child",
			Quantity:     child,
			UnitPrice:    decimal.NewFromInt(2500),
		})
	}
	return item
}

func TestCartItemMerge(t *testing.T) {
	item := adultChildItem("sched-1", 2, 0)
	other := adultChildItem("sched-1", 1, 3)

	if err := item.Merge(other); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if len(item.Tickets) != 2 {
		t.Fatalf("expected 2 ticket selections, got %d", len(item.Tickets))
	}
	if item.Tickets[0].Quantity != 3 {
		t.Errorf("adult quantity = %d, want 3", item.Tickets[0].Quantity)
	}
	if item.Tickets[1].Quantity != 3 {
		t.Errorf("child quantity = %d, want 3", item.Tickets[1].Quantity)
	}
}

func TestCartItemMergeKeepsExistingPrice(t *testing.T) {
	item := adultChildItem("sched-1", 2, 0)
	other := adultChildItem("sched-1", 1, 0)
	other.Tickets[0].UnitPrice = decimal.NewFromInt(9999)

	if err := item.Merge(other); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if !item.Tickets[0].UnitPrice.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("unit price = %s, want the original 5000", item.Tickets[0].UnitPrice)
	}
}

func TestCartItemMergeDifferentSchedules(t *testing.T) {
	item := adultChildItem("sched-1", 1, 0)
	if err := item.Merge(adultChildItem("sched-2", 1, 0)); err == nil {
		t.Error("expected error merging items for different schedules")
	}
}

func TestCartItemTotals(t *testing.T) {
	item := adultChildItem("sched-1", 2, 3)

	if got := item.TotalQuantity(); got != 5 {
		t.Errorf("TotalQuantity() = %d, want 5", got)
	}
	want := decimal.NewFromInt(2*5000 + 3*2500)
	if !item.Subtotal().Equal(want) {
		t.Errorf("Subtotal() = %s, want %s", item.Subtotal(), want)
	}
}

func TestCartStateValidate(t *testing.T) {
	tests := []struct {
		name    string
		state   CartState
		wantErr bool
	}{
		{
			name:  "empty state",
			state: CartState{},
		},
		{
			name: "valid single item",
			state: CartState{
				Items: []CartItem{adultChildItem("sched-1", 2, 1)},
			},
		},
		{
			name: "duplicate schedule",
			state: CartState{
				Items: []CartItem{
					adultChildItem("sched-1", 1, 0),
					adultChildItem("sched-1", 2, 0),
				},
			},
			wantErr: true,
		},
		{
			name: "zero quantity",
			state: CartState{
				Items: []CartItem{{
					TourScheduleID: "sched-1",
					Tickets:        []TicketSelection{{TicketTypeID: "tt-1", Quantity: 0}},
				}},
			},
			wantErr: true,
		},
		{
			name: "missing schedule ID",
			state: CartState{
				Items: []CartItem{{Tickets: []TicketSelection{{TicketTypeID: "tt-1", Quantity: 1}}}},
			},
			wantErr: true,
		},
		{
			name: "payment item still in cart",
			state: CartState{
				Items: []CartItem{adultChildItem("sched-1", 1, 0)},
				PaymentItem: &PaymentItem{
					Item:    adultChildItem("sched-1", 1, 0),
					OrderID: "order-1",
				},
			},
			wantErr: true,
		},
		{
			name: "payment item set aside",
			state: CartState{
				Items: []CartItem{adultChildItem("sched-1", 1, 0)},
				PaymentItem: &PaymentItem{
					Item:    adultChildItem("sched-2", 1, 0),
					OrderID: "order-1",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCartStateTotalExcludesPaymentItem(t *testing.T) {
	state := CartState{
		Items: []CartItem{adultChildItem("sched-1", 2, 0)},
		PaymentItem: &PaymentItem{
			Item:    adultChildItem("sched-2", 4, 0),
			OrderID: "order-1",
		},
	}
	want := decimal.NewFromInt(10000)
	if !state.Total().Equal(want) {
		t.Errorf("Total() = %s, want %s (held item must not count)", state.Total(), want)
	}
}

func TestCartStateIsEmpty(t *testing.T) {
	if !(CartState{}).IsEmpty() {
		t.Error("empty state should report empty")
	}
	held := CartState{PaymentItem: &PaymentItem{Item: adultChildItem("sched-1", 1, 0)}}
	if held.IsEmpty() {
		t.Error("state with a held payment item is not empty")
	}
}

func TestCartStateCloneIsDeep(t *testing.T) {
	state := CartState{Items: []CartItem{adultChildItem("sched-1", 2, 1)}}
	clone := state.Clone()

	clone.Items[0].Tickets[0].Quantity = 99
	if state.Items[0].Tickets[0].Quantity == 99 {
		t.Error("mutating the clone reached the original")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	state := CartState{
		Items: []CartItem{adultChildItem("sched-1", 2, 1)},
		PaymentItem: &PaymentItem{
			Item:    adultChildItem("sched-2", 1, 0),
			OrderID: "order-7",
		},
	}

	data, err := state.MarshalSnapshot()
	if err != nil {
		t.Fatalf("MarshalSnapshot() error = %v", err)
	}

	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot() error = %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].TotalQuantity() != 3 {
		t.Errorf("items did not survive the round trip: %+v", got.Items)
	}
	if got.PaymentItem == nil || got.PaymentItem.OrderID != "order-7" {
		t.Errorf("payment item did not survive the round trip: %+v", got.PaymentItem)
	}
}

func TestUnmarshalSnapshotRejectsInvalid(t *testing.T) {
	if _, err := UnmarshalSnapshot([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}

	bad := CartState{Items: []CartItem{
		adultChildItem("sched-1", 1, 0),
		adultChildItem("sched-1", 1, 0),
	}}
	data, _ := bad.MarshalSnapshot()
	if _, err := UnmarshalSnapshot(data); err == nil {
		t.Error("expected error for snapshot violating invariants")
	}
}
