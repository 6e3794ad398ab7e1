package client

import (
	"context"

	"github.com/monline/billing/internal/models"
)

// Login authenticates with phone and password and writes the whole session
// (token pair plus profile) to the store.
func (c *Client) Login(ctx context.Context, phone, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.post(ctx, "/users/login", nil, models.LoginRequest{
		Phone:    phone,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	session := Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.User != nil {
		session.User = *resp.User
	}
	if err := c.store.Write(session); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout clears the session. It never talks to the server; tokens simply
// expire.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// Register creates a self-service account. No session is established; the
// caller logs in afterwards.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.post(ctx, "/users/register", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me fetches the authenticated profile from the server and refreshes the
// cached copy.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	_ = c.store.Write(Session{
		AccessToken:  c.store.AccessToken(),
		RefreshToken: c.store.RefreshToken(),
		User:         user,
	})
	return &user, nil
}

// UpdateMe updates the authenticated profile.
func (c *Client) UpdateMe(ctx context.Context, input models.UserInput) (*models.User, error) {
	var user models.User
	if err := c.put(ctx, "/users/me", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the cached profile without a network round-trip.
// Signed out it returns a zero profile with Kind CUSTOMER.
func (c *Client) CurrentUser() models.User {
	return c.store.User()
}

// HasPermission reports whether the cached profile's kind is one of kinds.
func (c *Client) HasPermission(kinds ...string) bool {
	current := c.store.User().Kind
	for _, k := range kinds {
		if k == current {
			return true
		}
	}
	return false
}
