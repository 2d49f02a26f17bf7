package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order as reported by the
// backend API.
type OrderStatus string

const (
	OrderSubmitted       OrderStatus = "submitted"
	OrderAwaitingPayment OrderStatus = "awaiting_payment"
	OrderPaid            OrderStatus = "paid"
	OrderCancelled       OrderStatus = "cancelled"
	OrderCompleted       OrderStatus = "completed"
)

// Order is a server-owned booking record fetched from the backend. It
// is read-only on this side; the only way it changes is a re-fetch.
type Order struct {
	ID             string          `json:"id"`
	RefCode        string          `json:"refCode"`
	TourID         string          `json:"tourId"`
	TourTitle      string          `json:"tourName"`
	TourThumbnail  string          `json:"tourThumbnail"`
	TourScheduleID string          `json:"tourScheduleId"`
	ScheduleDate   string          `json:"tourDate"`
	Status         OrderStatus     `json:"status"`
	Tickets        []OrderTicket   `json:"orderTickets"`
	GrossCost      decimal.Decimal `json:"grossCost"`
	Discount       decimal.Decimal `json:"discountAmount"`
	FinalCost      decimal.Decimal `json:"finalCost"`
	CanRate        bool            `json:"canRating"`
	CreatedAt      time.Time       `json:"orderDate"`
}

// OrderTicket is one ticket line inside an order.
type OrderTicket struct {
	TicketTypeID string          `json:"ticketTypeId"`
	Kind         string          `json:"ticketKind"`
	Quantity     int             `json:"quantity"`
	GrossCost    decimal.Decimal `json:"grossCost"`
}

// Validate checks the fields every order coming off the wire must have.
func (o *Order) Validate() error {
	if o.ID == "" {
		return errors.New("order ID is required")
	}
	if o.RefCode == "" {
		return errors.New("order reference code is required")
	}
	if err := validateOrderStatus(o.Status); err != nil {
		return err
	}
	if o.FinalCost.IsNegative() {
		return errors.New("final cost cannot be negative")
	}
	return nil
}

func validateOrderStatus(status OrderStatus) error {
	switch status {
	case OrderSubmitted, OrderAwaitingPayment, OrderPaid, OrderCancelled, OrderCompleted:
		return nil
	default:
		return fmt.Errorf("invalid order status %q", status)
	}
}

// IsAwaitingPayment returns true if the order still needs to be paid.
func (o *Order) IsAwaitingPayment() bool {
	return o.Status == OrderSubmitted || o.Status == OrderAwaitingPayment
}

// IsPaid returns true if the order has been paid.
func (o *Order) IsPaid() bool {
	return o.Status == OrderPaid || o.Status == OrderCompleted
}

// IsCancelled returns true if the order was cancelled.
func (o *Order) IsCancelled() bool {
	return o.Status == OrderCancelled
}

// CanBeRated returns true if the tour on this order accepts a rating.
func (o *Order) CanBeRated() bool {
	return o.CanRate && o.IsPaid()
}

// TotalQuantity returns the ticket count across all lines.
func (o *Order) TotalQuantity() int {
	n := 0
	for _, t := range o.Tickets {
		n += t.Quantity
	}
	return n
}

// GetStatusDisplayName returns a human-readable status name.
func (o *Order) GetStatusDisplayName() string {
	switch o.Status {
	case OrderSubmitted:
		return "Submitted"
	case OrderAwaitingPayment:
		return "Awaiting Payment"
	case OrderPaid:
		return "Paid"
	case OrderCancelled:
		return "Cancelled"
	case OrderCompleted:
		return "Completed"
	default:
		return string(o.Status)
	}
}
