package client

import (
	"context"

	"github.com/monline/billing/internal/models"
)

// ListUsers returns one page of accounts. Admin only.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) (*models.Page[models.User], error) {
	var page models.Page[models.User]
	if err := c.get(ctx, "/users", opts.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUser retrieves one account by uid.
func (c *Client) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/users/"+uid, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates an account on behalf of an admin.
func (c *Client) CreateUser(ctx context.Context, input models.UserInput) (*models.User, error) {
	var user models.User
	if err := c.post(ctx, "/users", nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to an account.
func (c *Client) UpdateUser(ctx context.Context, uid string, input models.UserInput) (*models.User, error) {
	var user models.User
	if err := c.put(ctx, "/users/"+uid, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, uid string) error {
	return c.delete(ctx, "/users/"+uid)
}
