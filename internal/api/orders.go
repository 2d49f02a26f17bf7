package api

import (
	"context"
	"net/http"

	"tour-booking-platform/internal/auth"
	"tour-booking-platform/internal/models"
)

// CreateOrder submits a booking for a tour schedule and returns the
// created order.
func (c *Client) CreateOrder(ctx context.Context, ac *auth.Context, req models.BookingRequest) (*models.Order, error) {
	var order models.Order
	if err := c.DoJSON(ctx, ac, http.MethodPost, "/order", req, &order, nil); err != nil {
		return nil, err
	}
	return &order, nil
}

// Orders fetches the caller's full order history. Paging happens
// client-side in the order store.
func (c *Client) Orders(ctx context.Context, ac *auth.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.DoJSON(ctx, ac, http.MethodGet, "/order", nil, &orders, nil); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderDetail fetches one order by ID.
func (c *Client) OrderDetail(ctx context.Context, ac *auth.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := c.DoJSON(ctx, ac, http.MethodGet, "/order/"+orderID, nil, &order, nil); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels an order that is still awaiting payment.
func (c *Client) CancelOrder(ctx context.Context, ac *auth.Context, orderID string) error {
	return c.DoJSON(ctx, ac, http.MethodPut, "/order/"+orderID+"/cancel", nil, nil, nil)
}
