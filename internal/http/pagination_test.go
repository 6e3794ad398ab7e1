package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		target       string
		wantPage     int
		wantPageSize int
	}{
		{"/customers", 1, 10},
		{"/customers?page=3&page_size=25", 3, 25},
		{"/customers?page=0&page_size=-5", 1, 10},
		{"/customers?page=abc", 1, 10},
		{"/customers?page_size=9999", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			page, pageSize := parsePage(pageContext(t, tt.target))
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPageSize, pageSize)
		})
	}
}

func TestPageEnvelope_Links(t *testing.T) {
	c := pageContext(t, "http://api.local/api/v1/customers?page=2&page_size=10&name=rahim")
	c.Request.Host = "api.local"

	envelope := pageEnvelope(c, []string{}, 25, 2, 10)
	assert.Equal(t, 25, envelope["count"])

	next, ok := envelope["next"].(*string)
	require.True(t, ok)
	require.NotNil(t, next)
	assert.Contains(t, *next, "http://api.local/api/v1/customers?")
	assert.Contains(t, *next, "page=3")
	// Other filters survive in the link.
	assert.Contains(t, *next, "name=rahim")

	previous, ok := envelope["previous"].(*string)
	require.True(t, ok)
	require.NotNil(t, previous)
	assert.Contains(t, *previous, "page=1")
}

func TestPageEnvelope_Boundaries(t *testing.T) {
	c := pageContext(t, "http://api.local/api/v1/customers")
	c.Request.Host = "api.local"

	// Single page: no links either way.
	envelope := pageEnvelope(c, []string{}, 5, 1, 10)
	assert.Nil(t, envelope["next"])
	assert.Nil(t, envelope["previous"])

	// Last page: previous only.
	envelope = pageEnvelope(c, []string{}, 25, 3, 10)
	assert.Nil(t, envelope["next"])
	assert.NotNil(t, envelope["previous"])
}
