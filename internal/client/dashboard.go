package client

import (
	"context"

	"github.com/monline/billing/internal/models"
)

// Dashboard fetches the aggregate summary counters.
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.get(ctx, "/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
