package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/monline/billing/internal/models"
	"github.com/monline/billing/internal/repository"
)

// UserService handles staff and customer account CRUD plus the
// self-service profile endpoints.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List returns one page of users.
func (s *UserService) List(ctx context.Context, page, pageSize int) ([]*models.User, int, error) {
	return s.userRepo.List(ctx, page, pageSize)
}

// Get retrieves a single user by uid.
func (s *UserService) Get(ctx context.Context, uid string) (*models.User, error) {
	return s.userRepo.GetByUID(ctx, uid)
}

// Me retrieves the authenticated user's own profile.
func (s *UserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Create validates and stores a new account on behalf of an admin.
func (s *UserService) Create(ctx context.Context, input *models.UserInput) (*models.User, error) {
	if input.Phone == nil || *input.Phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if input.Password == nil || len(*input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	if _, err := s.userRepo.GetByPhone(ctx, *input.Phone); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up phone: %w", err)
	}

	hash, err := HashPassword(*input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UID:      uuid.New().String(),
		Phone:    *input.Phone,
		Gender:   models.GenderUnknown,
		Kind:     models.KindCustomer,
		Status:   models.StatusActive,
		Password: hash,
	}
	if err := s.apply(user, input); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies the supplied fields to an existing user.
func (s *UserService) Update(ctx context.Context, uid string, input *models.UserInput) (*models.User, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, user, input)
}

// UpdateMe applies profile fields to the authenticated user's own account.
// Kind changes are ignored here; only admins reassign roles.
func (s *UserService) UpdateMe(ctx context.Context, userID int64, input *models.UserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	input.Kind = nil
	return s.update(ctx, user, input)
}

// Delete soft-deletes a user by uid.
func (s *UserService) Delete(ctx context.Context, uid string) error {
	return s.userRepo.Delete(ctx, uid)
}

func (s *UserService) update(ctx context.Context, user *models.User, input *models.UserInput) (*models.User, error) {
	if input.Phone != nil && *input.Phone != user.Phone {
		if _, err := s.userRepo.GetByPhone(ctx, *input.Phone); err == nil {
			return nil, ErrPhoneTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("look up phone: %w", err)
		}
		user.Phone = *input.Phone
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
		}
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if err := s.apply(user, input); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// apply copies the optional shared fields of a write payload onto a user.
func (s *UserService) apply(user *models.User, input *models.UserInput) error {
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Image != nil {
		user.Image = *input.Image
	}
	if input.Gender != nil {
		g := *input.Gender
		if g != models.GenderFemale && g != models.GenderMale && g != models.GenderUnknown {
			return fmt.Errorf("%w: unknown gender %q", ErrValidation, g)
		}
		user.Gender = g
	}
	if input.Kind != nil {
		if !models.ValidUserKind(*input.Kind) {
			return fmt.Errorf("%w: unknown user kind %q", ErrValidation, *input.Kind)
		}
		user.Kind = *input.Kind
	}
	return nil
}
