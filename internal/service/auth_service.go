package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/monline/billing/internal/config"
	"github.com/monline/billing/internal/models"
	"github.com/monline/billing/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrPhoneTaken         = errors.New("phone number already registered")
)

// Claims carried inside both token types. TokenType distinguishes access
// tokens from refresh tokens so one can never stand in for the other.
type Claims struct {
	UserID    int64  `json:"user_id"`
	UserUID   string `json:"user_uid"`
	Kind      string `json:"kind"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies JWT token pairs and handles registration.
type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// Login verifies credentials and returns a fresh token pair with the user
// profile attached.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, accessExp, err := s.issueToken(user, "access", time.Duration(s.cfg.JWT.AccessTTLHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.issueToken(user, "refresh", time.Duration(s.cfg.JWT.RefreshTTLHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessTokenExp:  accessExp,
		RefreshTokenExp: refreshExp,
		User:            user,
	}, nil
}

// Refresh validates a refresh token and issues a new access token. The
// refresh token itself does not rotate.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error) {
	claims, err := s.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	accessToken, accessExp, err := s.issueToken(user, "access", time.Duration(s.cfg.JWT.AccessTTLHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &models.RefreshResponse{
		AccessToken:    accessToken,
		AccessTokenExp: accessExp,
	}, nil
}

// Register creates a self-service account. Registered users start as
// customers; staff roles are assigned by an admin afterwards.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, errors.New("passwords do not match")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByPhone(ctx, req.Phone); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up phone: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	gender := req.Gender
	if gender == "" {
		gender = models.GenderUnknown
	}

	user := &models.User{
		UID:       uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Gender:    gender,
		Kind:      models.KindCustomer,
		Status:    models.StatusActive,
		Password:  string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// ParseToken verifies signature and expiry and returns the claims.
// Callers check TokenType themselves.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword wraps bcrypt for user create/update paths outside login.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) issueToken(user *models.User, tokenType string, ttl time.Duration) (string, int64, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := &Claims{
		UserID:    user.ID,
		UserUID:   user.UID,
		Kind:      user.Kind,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", 0, fmt.Errorf("sign %s token: %w", tokenType, err)
	}

	return signed, exp.Unix(), nil
}
