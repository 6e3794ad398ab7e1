package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/monline/billing/internal/models"
	"github.com/monline/billing/internal/repository"
)

// PackageService handles internet package CRUD.
type PackageService struct {
	packageRepo *repository.PackageRepository
}

func NewPackageService(packageRepo *repository.PackageRepository) *PackageService {
	return &PackageService{packageRepo: packageRepo}
}

// List returns one page of packages.
func (s *PackageService) List(ctx context.Context, page, pageSize int) ([]*models.Package, int, error) {
	return s.packageRepo.List(ctx, page, pageSize)
}

// Get retrieves a single package by uid.
func (s *PackageService) Get(ctx context.Context, uid string) (*models.Package, error) {
	return s.packageRepo.GetByUID(ctx, uid)
}

// Create validates and stores a new package.
func (s *PackageService) Create(ctx context.Context, input *models.PackageInput) (*models.Package, error) {
	if input.Name == nil || *input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Price == nil {
		return nil, fmt.Errorf("%w: price is required", ErrValidation)
	}
	if err := validPrice(*input.Price); err != nil {
		return nil, err
	}

	pkg := &models.Package{
		UID:   uuid.New().String(),
		Name:  *input.Name,
		Price: *input.Price,
	}
	if input.SpeedMbps != nil {
		pkg.SpeedMbps = *input.SpeedMbps
	}
	if input.Description != nil {
		pkg.Description = *input.Description
	}

	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Update applies the supplied fields to an existing package.
func (s *PackageService) Update(ctx context.Context, uid string, input *models.PackageInput) (*models.Package, error) {
	pkg, err := s.packageRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		pkg.Name = *input.Name
	}
	if input.Price != nil {
		if err := validPrice(*input.Price); err != nil {
			return nil, err
		}
		pkg.Price = *input.Price
	}
	if input.SpeedMbps != nil {
		pkg.SpeedMbps = *input.SpeedMbps
	}
	if input.Description != nil {
		pkg.Description = *input.Description
	}

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Delete soft-deletes a package. Packages with active subscribers cannot be
// removed.
func (s *PackageService) Delete(ctx context.Context, uid string) error {
	return s.packageRepo.Delete(ctx, uid)
}

func validPrice(price string) error {
	v, err := strconv.ParseFloat(price, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("%w: price must be a non-negative decimal number", ErrValidation)
	}
	return nil
}
