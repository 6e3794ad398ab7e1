package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monline/billing/internal/models"
)

func seededStore(access, refresh string) *MemoryStore {
	store := NewMemoryStore()
	_ = store.Write(Session{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         models.User{UID: "u-1", Kind: models.KindStaff},
	})
	return store
}

func TestDo_NoTokenOmitsAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.User{UID: "u-1"})
	}))
	defer srv.Close()

	c := New(srv.URL, NewMemoryStore())
	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.User{UID: "u-1"})
	}))
	defer srv.Close()

	c := New(srv.URL, seededStore("tok-123", ""))
	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestDo_RefreshesOnceAndRetries(t *testing.T) {
	var refreshCalls, meCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/users/login/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		var req models.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "refresh-tok", req.RefreshToken)
		json.NewEncoder(w).Encode(models.RefreshResponse{AccessToken: "fresh-tok"})
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&meCalls, 1)
		if r.Header.Get("Authorization") != "Bearer fresh-tok" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
			return
		}
		json.NewEncoder(w).Encode(models.User{UID: "u-1", Kind: models.KindStaff})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := seededStore("stale-tok", "refresh-tok")
	c := New(srv.URL, store)

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UID)

	assert.EqualValues(t, 1, refreshCalls)
	assert.EqualValues(t, 2, meCalls)
	assert.Equal(t, "fresh-tok", store.AccessToken())
	// The refresh token does not rotate.
	assert.Equal(t, "refresh-tok", store.RefreshToken())
}

func TestDo_SecondUnauthorizedPropagates(t *testing.T) {
	var refreshCalls, meCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/users/login/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		json.NewEncoder(w).Encode(models.RefreshResponse{AccessToken: "fresh-tok"})
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		// Revoked account: stays 401 even with a fresh token.
		atomic.AddInt32(&meCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "account disabled"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, seededStore("stale-tok", "refresh-tok"))

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	// Exactly one refresh, exactly one retry, no loop.
	assert.EqualValues(t, 1, refreshCalls)
	assert.EqualValues(t, 2, meCalls)
}

func TestDo_RefreshFailureClearsSessionAndFiresHook(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/login/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "refresh token expired"})
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := seededStore("stale-tok", "dead-refresh")
	c := New(srv.URL, store)

	hookFired := false
	c.OnSessionExpired = func() { hookFired = true }

	_, err := c.Me(context.Background())
	require.Error(t, err)

	// The original 401 surfaces, not the refresh failure.
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "token expired", apiErr.Message)

	assert.True(t, hookFired)
	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
}

func TestDo_NoRefreshTokenSkipsRefresh(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/users/login/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, seededStore("stale-tok", ""))
	hookFired := false
	c.OnSessionExpired = func() { hookFired = true }

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.EqualValues(t, 0, refreshCalls)
	assert.False(t, hookFired)
}

func TestDo_ConcurrentRefreshesCoalesce(t *testing.T) {
	const workers = 5

	// The refresh handler blocks until every worker has seen its 401, so
	// all of them are waiting on the same in-flight refresh.
	var sawStale sync.WaitGroup
	sawStale.Add(workers)

	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/users/login/refresh", func(w http.ResponseWriter, r *http.Request) {
		sawStale.Wait()
		// Give the last rejected worker time to join the in-flight refresh.
		time.Sleep(100 * time.Millisecond)
		atomic.AddInt32(&refreshCalls, 1)
		json.NewEncoder(w).Encode(models.RefreshResponse{AccessToken: "fresh-tok"})
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh-tok" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
			sawStale.Done()
			return
		}
		json.NewEncoder(w).Encode(models.User{UID: "u-1"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, seededStore("stale-tok", "refresh-tok"))

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Me(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "worker %d", i)
	}
	assert.EqualValues(t, 1, refreshCalls)
}

func TestDo_ErrorBodyBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"phone":    []string{"This field is required."},
			"password": []string{"Too short.", "Too common."},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, NewMemoryStore())
	_, err := c.Register(context.Background(), models.RegisterRequest{})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, []string{"This field is required."}, apiErr.Fields["phone"])
	assert.Len(t, apiErr.Fields["password"], 2)
}

func TestLogin_WritesSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "01700000001", req.Phone)
		json.NewEncoder(w).Encode(models.LoginResponse{
			AccessToken:  "acc",
			RefreshToken: "ref",
			User:         &models.User{UID: "u-1", Kind: models.KindAdmin},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := NewMemoryStore()
	c := New(srv.URL, store)

	_, err := c.Login(context.Background(), "01700000001", "secret")
	require.NoError(t, err)

	assert.Equal(t, "acc", store.AccessToken())
	assert.Equal(t, "ref", store.RefreshToken())
	assert.Equal(t, models.KindAdmin, store.User().Kind)

	require.NoError(t, c.Logout())
	assert.Empty(t, store.AccessToken())
	assert.Equal(t, models.KindCustomer, store.User().Kind)
}
