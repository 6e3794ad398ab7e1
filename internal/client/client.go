package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/monline/billing/internal/models"
)

// Client is the typed API client for the billing backend. It attaches the
// bearer token from the injected Store and transparently refreshes an
// expired access token once per request.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	store        Store
	refreshGroup singleflight.Group

	// OnSessionExpired is invoked after a failed token refresh, once the
	// store has been cleared. The CLI uses it to print the login prompt.
	OnSessionExpired func()
}

// New creates a client against baseURL ("http://host:port/api/v1") using
// store for token persistence.
func New(baseURL string, store Store) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		store: store,
	}
}

// SetHTTPClient replaces the underlying transport. Tests use it to shorten
// timeouts.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// do executes one API call. A JSON body is marshalled from body when non-nil
// and the response decoded into out when non-nil. Non-2xx responses come
// back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}
	return c.send(ctx, method, path, query, payload, out, 0)
}

// send carries an explicit attempt counter: attempt 0 is the original
// request, attempt 1 is the single post-refresh retry. The retried request
// is rebuilt from scratch so no state leaks between attempts.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, out any, attempt int) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Anonymous requests (login, register) go out without a bearer token.
	if token := c.store.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
		original := newAPIError(resp.StatusCode, respBody)

		// No refresh token means nothing to retry with.
		if c.store.RefreshToken() == "" {
			return original
		}

		if err := c.refreshAccessToken(ctx); err != nil {
			// The session is dead. Clear it, tell the caller to
			// re-authenticate, and surface the original failure.
			_ = c.store.Clear()
			if c.OnSessionExpired != nil {
				c.OnSessionExpired()
			}
			return original
		}

		return c.send(ctx, method, path, query, payload, out, attempt+1)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// refreshAccessToken exchanges the stored refresh token for a new access
// token. Concurrent callers coalesce into a single in-flight exchange; all
// of them see its outcome.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		reqBody, err := json.Marshal(models.RefreshRequest{
			RefreshToken: c.store.RefreshToken(),
		})
		if err != nil {
			return nil, fmt.Errorf("marshal refresh request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/users/login/refresh", bytes.NewReader(reqBody))
		if err != nil {
			return nil, fmt.Errorf("create refresh request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("refresh request failed: %w", err)
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read refresh response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, newAPIError(resp.StatusCode, respBody)
		}

		var refreshResp models.RefreshResponse
		if err := json.Unmarshal(respBody, &refreshResp); err != nil {
			return nil, fmt.Errorf("decode refresh response: %w", err)
		}

		// Only the access token rotates.
		return nil, c.store.Write(Session{
			AccessToken:  refreshResp.AccessToken,
			RefreshToken: c.store.RefreshToken(),
			User:         c.store.User(),
		})
	})
	return err
}

// ==================== Method helpers ====================

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
