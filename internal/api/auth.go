package api

import (
	"context"
	"fmt"
	"net/http"

	"tour-booking-platform/internal/auth"
	"tour-booking-platform/internal/models"
)

// Profile is the authenticated user's account record.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"userName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	AvatarURL   string `json:"image"`
	Confirmed   bool   `json:"isActive"`
}

// Login exchanges credentials for a token pair. No token is attached;
// this is the call that produces one.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	var pair models.TokenPair
	err := c.DoJSON(ctx, &auth.Context{}, http.MethodPost, "/authentication/login", req, &pair, &Options{SkipAuth: true})
	if err != nil {
		return nil, err
	}
	if pair.SessionToken == "" {
		return nil, fmt.Errorf("login response missing token")
	}
	return &pair, nil
}

// Register creates an account. The backend sends a confirmation email;
// the account stays inactive until ConfirmAccount succeeds.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.DoJSON(ctx, &auth.Context{}, http.MethodPost, "/authentication/register", req, nil, &Options{SkipAuth: true})
}

// ConfirmAccount activates a registered account from the emailed
// confirmation token.
func (c *Client) ConfirmAccount(ctx context.Context, confirmationToken string) error {
	body := map[string]string{"confirmationToken": confirmationToken}
	return c.DoJSON(ctx, &auth.Context{}, http.MethodPost, "/authentication/confirmation", body, nil, &Options{SkipAuth: true})
}

// RefreshToken trades a refresh token for a fresh pair. Invoked
// explicitly by UI-level logic after a 401; the client never does this
// implicitly.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var pair models.TokenPair
	err := c.DoJSON(ctx, &auth.Context{}, http.MethodPost, "/authentication/refresh", body, &pair, &Options{SkipAuth: true})
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout invalidates the session token on the backend.
func (c *Client) Logout(ctx context.Context, ac *auth.Context) error {
	return c.DoJSON(ctx, ac, http.MethodPost, "/authentication/logout", nil, nil, nil)
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context, ac *auth.Context) (*Profile, error) {
	var profile Profile
	if err := c.DoJSON(ctx, ac, http.MethodGet, "/user/me", nil, &profile, nil); err != nil {
		return nil, err
	}
	return &profile, nil
}
