package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monline/billing/internal/config"
	"github.com/monline/billing/internal/models"
	"github.com/monline/billing/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testAuth() *service.AuthService {
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: testSecret}}
	return service.NewAuthService(cfg, nil)
}

func signToken(t *testing.T, tokenType string, kind string, ttl time.Duration) string {
	t.Helper()
	claims := &service.Claims{
		UserID:    1,
		UserUID:   "u-1",
		Kind:      kind,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authTestRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(testAuth())}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"kind": c.GetString("userKind")})
	})
	r.GET("/probe", handlers...)
	return r
}

func probe(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := authTestRouter()

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, probe(r, "").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, probe(r, "Token abc").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, probe(r, "Bearer not.a.jwt").Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, "access", models.KindAdmin, -time.Minute)
		assert.Equal(t, http.StatusUnauthorized, probe(r, "Bearer "+token).Code)
	})

	t.Run("refresh token rejected on api routes", func(t *testing.T) {
		token := signToken(t, "refresh", models.KindAdmin, time.Hour)
		assert.Equal(t, http.StatusUnauthorized, probe(r, "Bearer "+token).Code)
	})

	t.Run("valid access token passes and sets identity", func(t *testing.T) {
		token := signToken(t, "access", models.KindManager, time.Hour)
		w := probe(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), models.KindManager)
	})
}

func TestRequireKinds(t *testing.T) {
	r := authTestRouter(RequireKinds(models.KindSuperAdmin, models.KindAdmin))

	t.Run("staff blocked from admin routes", func(t *testing.T) {
		token := signToken(t, "access", models.KindStaff, time.Hour)
		assert.Equal(t, http.StatusForbidden, probe(r, "Bearer "+token).Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		token := signToken(t, "access", models.KindAdmin, time.Hour)
		assert.Equal(t, http.StatusOK, probe(r, "Bearer "+token).Code)
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	// Keys are independent.
	assert.True(t, rl.Allow("b"))
}

func TestRateLimiter_EvictsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(2, 20*time.Millisecond)

	assert.True(t, rl.Allow("idle"))
	time.Sleep(30 * time.Millisecond)

	// A request on any key after a full quiet window triggers the sweep.
	assert.True(t, rl.Allow("busy"))

	rl.mu.Lock()
	_, ok := rl.requests["idle"]
	rl.mu.Unlock()
	assert.False(t, ok, "idle key should be evicted after a full window")

	// The active key is untouched and still rate limited.
	assert.True(t, rl.Allow("busy"))
	assert.False(t, rl.Allow("busy"))
}
