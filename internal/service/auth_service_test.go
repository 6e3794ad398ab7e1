package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/monline/billing/internal/config"
	"github.com/monline/billing/internal/models"
)

func testAuthService() *AuthService {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "0123456789abcdef0123456789abcdef",
			AccessTTLHours:  7 * 24,
			RefreshTTLHours: 30 * 24,
		},
	}
	return NewAuthService(cfg, nil)
}

func TestIssueAndParseToken(t *testing.T) {
	s := testAuthService()
	user := &models.User{ID: 7, UID: "u-7", Kind: models.KindManager}

	token, exp, err := s.issueToken(user, "access", time.Hour)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), exp, 5)

	claims, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "u-7", claims.UserUID)
	assert.Equal(t, models.KindManager, claims.Kind)
	assert.Equal(t, "access", claims.TokenType)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	s := testAuthService()
	token, _, err := s.issueToken(&models.User{ID: 1}, "access", time.Hour)
	require.NoError(t, err)

	other := NewAuthService(&config.Config{
		JWT: config.JWTConfig{SecretKey: "another-secret-another-secret-00"},
	}, nil)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsExpired(t *testing.T) {
	s := testAuthService()
	token, _, err := s.issueToken(&models.User{ID: 1}, "access", -time.Minute)
	require.NoError(t, err)

	_, err = s.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	s := testAuthService()
	_, err := s.ParseToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	s := testAuthService()

	// An access token must never pass for a refresh token, even though it
	// is validly signed.
	token, _, err := s.issueToken(&models.User{ID: 1}, "access", time.Hour)
	require.NoError(t, err)

	_, err = s.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}
