package api

import (
	"context"
	"fmt"
	"net/http"

	"tour-booking-platform/internal/auth"

	"github.com/shopspring/decimal"
)

// PaymentResponse is the backend's answer to a payment initiation: the
// external provider URL the browser must be sent to.
type PaymentResponse struct {
	PaymentID   string `json:"paymentId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// Wallet is the user's stored balance with the platform.
type Wallet struct {
	Balance decimal.Decimal `json:"balance"`
}

// CreatePayment initiates payment for an order and returns the
// provider checkout URL the whole page navigates to.
func (c *Client) CreatePayment(ctx context.Context, ac *auth.Context, orderID string) (*PaymentResponse, error) {
	body := map[string]string{"bookingId": orderID}
	var resp PaymentResponse
	if err := c.DoJSON(ctx, ac, http.MethodPost, "/payment", body, &resp, nil); err != nil {
		return nil, err
	}
	if resp.CheckoutURL == "" {
		return nil, fmt.Errorf("payment response missing checkout URL")
	}
	return &resp, nil
}

// CancelPayment tells the backend the user abandoned the provider
// checkout, releasing the held order.
func (c *Client) CancelPayment(ctx context.Context, ac *auth.Context, orderID string) error {
	return c.DoJSON(ctx, ac, http.MethodPut, "/payment/"+orderID+"/cancel", nil, nil, nil)
}

// GetWallet fetches the user's wallet balance.
func (c *Client) GetWallet(ctx context.Context, ac *auth.Context) (*Wallet, error) {
	var wallet Wallet
	if err := c.DoJSON(ctx, ac, http.MethodGet, "/wallet", nil, &wallet, nil); err != nil {
		return nil, err
	}
	return &wallet, nil
}
