package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/monline/billing/internal/models"
	"github.com/monline/billing/internal/repository"
)

// CustomerService handles subscriber connection CRUD.
type CustomerService struct {
	customerRepo *repository.CustomerRepository
	packageRepo  *repository.PackageRepository
}

func NewCustomerService(customerRepo *repository.CustomerRepository, packageRepo *repository.PackageRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, packageRepo: packageRepo}
}

// List returns one page of customers matching the filter.
func (s *CustomerService) List(ctx context.Context, f repository.CustomerFilter, page, pageSize int) ([]*models.Customer, int, error) {
	return s.customerRepo.List(ctx, f, page, pageSize)
}

// ListByPackage returns customers subscribed to one package.
func (s *CustomerService) ListByPackage(ctx context.Context, packageUID string, page, pageSize int) ([]*models.Customer, int, error) {
	// 404 for an unknown package instead of a silent empty page
	if _, err := s.packageRepo.GetByUID(ctx, packageUID); err != nil {
		return nil, 0, err
	}
	return s.customerRepo.List(ctx, repository.CustomerFilter{PackageUID: packageUID}, page, pageSize)
}

// Get retrieves a single customer by uid.
func (s *CustomerService) Get(ctx context.Context, uid string) (*models.Customer, error) {
	return s.customerRepo.GetByUID(ctx, uid)
}

// Create validates and stores a new customer.
func (s *CustomerService) Create(ctx context.Context, input *models.CustomerInput) (*models.Customer, error) {
	if input.Name == nil || *input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Phone == nil || *input.Phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}

	customer := &models.Customer{
		UID:            uuid.New().String(),
		Name:           *input.Name,
		Phone:          *input.Phone,
		IsActive:       true,
		ConnectionType: models.ConnectionPPPoE,
	}
	if err := s.apply(customer, input); err != nil {
		return nil, err
	}

	packageID, err := s.resolvePackage(ctx, customer, input.PackageID)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer, nil, packageID); err != nil {
		return nil, err
	}
	return s.customerRepo.GetByUID(ctx, customer.UID)
}

// Update applies the supplied fields to an existing customer.
func (s *CustomerService) Update(ctx context.Context, uid string, input *models.CustomerInput) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if err := s.apply(customer, input); err != nil {
		return nil, err
	}

	packageID, err := s.resolvePackage(ctx, customer, input.PackageID)
	if err != nil {
		return nil, err
	}
	if input.PackageID == nil && customer.Package != nil {
		packageID = &customer.Package.ID
	}

	var userID *int64
	if customer.User != nil {
		userID = &customer.User.ID
	}

	if err := s.customerRepo.Update(ctx, customer, userID, packageID); err != nil {
		return nil, err
	}
	return s.customerRepo.GetByUID(ctx, uid)
}

// Delete soft-deletes a customer. Customers with payment history cannot be
// removed.
func (s *CustomerService) Delete(ctx context.Context, uid string) error {
	return s.customerRepo.Delete(ctx, uid)
}

// apply copies the optional shared fields of a write payload onto a customer.
func (s *CustomerService) apply(customer *models.Customer, input *models.CustomerInput) error {
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.NID != nil {
		customer.NID = *input.NID
	}
	if input.ConnectionStartDate != nil {
		customer.ConnectionStartDate = *input.ConnectionStartDate
	}
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}
	if input.IsFree != nil {
		customer.IsFree = *input.IsFree
	}
	if input.IPAddress != nil {
		customer.IPAddress = *input.IPAddress
	}
	if input.MACAddress != nil {
		customer.MACAddress = *input.MACAddress
	}
	if input.Username != nil {
		customer.Username = *input.Username
	}
	if input.Password != nil {
		customer.Password = *input.Password
	}
	if input.ConnectionType != nil {
		if !models.ValidConnectionType(*input.ConnectionType) {
			return fmt.Errorf("%w: unknown connection type %q", ErrValidation, *input.ConnectionType)
		}
		customer.ConnectionType = *input.ConnectionType
	}
	if input.Credentials != nil {
		customer.Credentials = input.Credentials
	}
	return nil
}

// resolvePackage validates a package_id from a write payload and keeps the
// nested package in sync for callers that read it before the re-fetch.
func (s *CustomerService) resolvePackage(ctx context.Context, customer *models.Customer, packageID *int64) (*int64, error) {
	if packageID == nil {
		return nil, nil
	}
	pkg, err := s.packageRepo.GetByID(ctx, *packageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: package %s does not exist", ErrValidation, strconv.FormatInt(*packageID, 10))
		}
		return nil, err
	}
	customer.Package = pkg
	return &pkg.ID, nil
}
