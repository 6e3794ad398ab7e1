package client

import (
	"context"
	"net/url"

	"github.com/monline/billing/internal/models"
)

// ListCustomers returns one page of customers matching the filter. All
// filtering happens server-side.
func (c *Client) ListCustomers(ctx context.Context, opts ListOptions, filter CustomerListFilter) (*models.Page[models.Customer], error) {
	q := opts.values()
	filter.apply(q)

	var page models.Page[models.Customer]
	if err := c.get(ctx, "/customers", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCustomer retrieves one customer by uid.
func (c *Client) GetCustomer(ctx context.Context, uid string) (*models.Customer, error) {
	var customer models.Customer
	if err := c.get(ctx, "/customers/"+uid, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer creates a customer connection.
func (c *Client) CreateCustomer(ctx context.Context, input models.CustomerInput) (*models.Customer, error) {
	var customer models.Customer
	if err := c.post(ctx, "/customers", nil, input, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer applies a partial update to a customer.
func (c *Client) UpdateCustomer(ctx context.Context, uid string, input models.CustomerInput) (*models.Customer, error) {
	var customer models.Customer
	if err := c.put(ctx, "/customers/"+uid, input, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer removes a customer. The server refuses with a 409 when
// payment history exists.
func (c *Client) DeleteCustomer(ctx context.Context, uid string) error {
	return c.delete(ctx, "/customers/"+uid)
}

// CustomerPayments returns one page of a customer's payment history.
func (c *Client) CustomerPayments(ctx context.Context, uid string, opts ListOptions) (*models.Page[models.Payment], error) {
	var page models.Page[models.Payment]
	if err := c.get(ctx, "/customers/"+uid+"/payments", opts.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateCustomerPayment records a collection against one customer's bill.
func (c *Client) CreateCustomerPayment(ctx context.Context, uid string, input models.PaymentInput) (*models.Payment, error) {
	var payment models.Payment
	if err := c.post(ctx, "/customers/"+uid+"/payments", nil, input, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GenerateBills creates pending bills for month ("" means the current
// month, decided server-side).
func (c *Client) GenerateBills(ctx context.Context, month string) (*models.GenerateBillsResponse, error) {
	q := url.Values{}
	if month != "" {
		q.Set("month", month)
	}

	var resp models.GenerateBillsResponse
	if err := c.post(ctx, "/customers/bills/generate", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleStatus flips a customer's connection by PPPoE username.
func (c *Client) ToggleStatus(ctx context.Context, username string, isActive bool) (*models.StatusToggleResponse, error) {
	var resp models.StatusToggleResponse
	err := c.post(ctx, "/customers/status/toggle", nil, models.StatusToggleRequest{
		Username: username,
		IsActive: &isActive,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
