package client

import (
	"context"

	"github.com/monline/billing/internal/models"
)

// ListPackages returns one page of internet packages.
func (c *Client) ListPackages(ctx context.Context, opts ListOptions) (*models.Page[models.Package], error) {
	var page models.Page[models.Package]
	if err := c.get(ctx, "/packages", opts.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPackage retrieves one package by uid.
func (c *Client) GetPackage(ctx context.Context, uid string) (*models.Package, error) {
	var pkg models.Package
	if err := c.get(ctx, "/packages/"+uid, nil, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// CreatePackage creates a package.
func (c *Client) CreatePackage(ctx context.Context, input models.PackageInput) (*models.Package, error) {
	var pkg models.Package
	if err := c.post(ctx, "/packages", nil, input, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// UpdatePackage applies a partial update to a package.
func (c *Client) UpdatePackage(ctx context.Context, uid string, input models.PackageInput) (*models.Package, error) {
	var pkg models.Package
	if err := c.put(ctx, "/packages/"+uid, input, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// DeletePackage removes a package. The server refuses with a 409 when
// active customers still subscribe to it.
func (c *Client) DeletePackage(ctx context.Context, uid string) error {
	return c.delete(ctx, "/packages/"+uid)
}

// PackageCustomers returns one page of the customers subscribed to a
// package.
func (c *Client) PackageCustomers(ctx context.Context, uid string, opts ListOptions) (*models.Page[models.Customer], error) {
	var page models.Page[models.Customer]
	if err := c.get(ctx, "/packages/"+uid+"/customers", opts.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
