package cli

import (
	"bytes"
	"encoding/json"
	"flag"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monline/billing/internal/client"
	"github.com/monline/billing/internal/models"
)

// runCLI executes one command against a fake backend with a signed-in
// session file.
func runCLI(t *testing.T, srv *httptest.Server, stdin string, args ...string) (int, string, string) {
	t.Helper()

	sessionFile := filepath.Join(t.TempDir(), "session.json")
	store := client.NewFileStore(sessionFile)
	require.NoError(t, store.Write(client.Session{
		AccessToken:  "test-token",
		RefreshToken: "test-refresh",
		User:         models.User{UID: "u-1", Kind: models.KindAdmin},
	}))

	t.Setenv("MONLINE_SESSION_FILE", sessionFile)
	if srv != nil {
		t.Setenv("MONLINE_API_URL", srv.URL)
	}

	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr, strings.NewReader(stdin))
	return code, stdout.String(), stderr.String()
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(nil, &stdout, &stderr, strings.NewReader(""))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"frobnicate"}, &stdout, &stderr, strings.NewReader(""))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "unknown command")
}

func TestRun_ContactNeedsNoSession(t *testing.T) {
	code, stdout, _ := runCLI(t, nil, "", "contact")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Hotline")
}

func TestRun_CustomersList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(models.Page[models.Customer]{
			Count: 1,
			Results: []models.Customer{{
				UID: "c-1", Name: "Rahim Uddin", Phone: "01700000001",
				Username: "rahim01", IsActive: true,
			}},
		})
	}))
	defer srv.Close()

	code, stdout, _ := runCLI(t, srv, "", "customers", "list")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Rahim Uddin")
	assert.Contains(t, stdout, "Showing 1 of 1")
}

func TestRun_CustomersDeleteAbortsWithoutConfirmation(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	code, stdout, _ := runCLI(t, srv, "n\n", "customers", "delete", "c-1")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Aborted.")
	assert.False(t, called, "server must not be hit after an aborted confirm")
}

func TestRun_CustomersDeleteWithYesFlag(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	code, stdout, _ := runCLI(t, srv, "", "customers", "delete", "-yes", "c-1")
	assert.Equal(t, 0, code)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/customers/c-1", gotPath)
	assert.Contains(t, stdout, "deleted")
}

func TestRun_FieldErrorsAreListed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"phone": []string{"This field is required."},
		})
	}))
	defer srv.Close()

	code, _, stderr := runCLI(t, srv, "", "customers", "create", "-name", "X")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "phone: This field is required.")
}

func TestParseFlags_TracksExplicitFields(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	name := fs.String("name", "", "")
	active := fs.Bool("active", true, "")
	fs.String("email", "", "")

	set, err := parseFlags(fs, []string{"-name", "Rahim", "-active=false"})
	require.NoError(t, err)

	assert.Equal(t, &[]string{"Rahim"}[0], strPtr(set, "name", *name))
	require.NotNil(t, boolPtr(set, "active", *active))
	// An explicit -active=false must produce a false pointer, not nil.
	assert.False(t, *boolPtr(set, "active", *active))
	// Untouched flags stay nil so updates leave those fields alone.
	assert.Nil(t, strPtr(set, "email", ""))
}
