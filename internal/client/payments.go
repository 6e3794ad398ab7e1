package client

import (
	"context"

	"github.com/monline/billing/internal/models"
)

// ListPayments returns one page of payments matching the filter.
func (c *Client) ListPayments(ctx context.Context, opts ListOptions, filter PaymentListFilter) (*models.Page[models.Payment], error) {
	q := opts.values()
	filter.apply(q)

	var page models.Page[models.Payment]
	if err := c.get(ctx, "/payments", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPayment retrieves one payment by uid.
func (c *Client) GetPayment(ctx context.Context, uid string) (*models.Payment, error) {
	var payment models.Payment
	if err := c.get(ctx, "/payments/"+uid, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreatePayment records a collection. The customer is addressed by numeric
// customer_id in the payload.
func (c *Client) CreatePayment(ctx context.Context, input models.PaymentInput) (*models.Payment, error) {
	var payment models.Payment
	if err := c.post(ctx, "/payments", nil, input, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdatePayment applies a partial update to a payment.
func (c *Client) UpdatePayment(ctx context.Context, uid string, input models.PaymentInput) (*models.Payment, error) {
	var payment models.Payment
	if err := c.put(ctx, "/payments/"+uid, input, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// DeletePayment removes a payment.
func (c *Client) DeletePayment(ctx context.Context, uid string) error {
	return c.delete(ctx, "/payments/"+uid)
}
