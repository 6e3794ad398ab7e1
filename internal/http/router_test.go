package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/monline/billing/internal/config"
	"github.com/monline/billing/internal/service"
)

func testServer() *Server {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{SecretKey: testSecret},
	}
	auth := service.NewAuthService(cfg, nil)
	return NewServer(cfg, nil, auth, nil, nil, nil, nil)
}

// Updates go through PUT /{resource}/{uid}. An unauthenticated request
// distinguishes a registered route (401 from the auth middleware) from an
// unregistered one (404), so no handler ever runs.
func TestUpdateRoutesUsePut(t *testing.T) {
	r := testServer().Router()

	hit := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for _, path := range []string{
		"/api/v1/users/u-1",
		"/api/v1/packages/p-1",
		"/api/v1/customers/c-1",
		"/api/v1/payments/pm-1",
	} {
		assert.Equal(t, http.StatusUnauthorized, hit(http.MethodPut, path), "PUT %s should be routed", path)
		assert.Equal(t, http.StatusNotFound, hit(http.MethodPatch, path), "PATCH %s should not exist", path)
	}
}
