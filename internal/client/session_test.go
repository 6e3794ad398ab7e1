package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monline/billing/internal/models"
)

func TestMemoryStore_EmptySessionDefaultsToCustomer(t *testing.T) {
	store := NewMemoryStore()
	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
	assert.Equal(t, models.KindCustomer, store.User().Kind)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	store := NewFileStore(path)
	require.NoError(t, store.Write(Session{
		AccessToken:  "acc",
		RefreshToken: "ref",
		User:         models.User{UID: "u-1", Kind: models.KindManager, Phone: "01700000001"},
	}))

	// A fresh store reads the persisted session back.
	reloaded := NewFileStore(path)
	assert.Equal(t, "acc", reloaded.AccessToken())
	assert.Equal(t, "ref", reloaded.RefreshToken())
	assert.Equal(t, models.KindManager, reloaded.User().Kind)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_ClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	require.NoError(t, store.Write(Session{AccessToken: "acc"}))

	require.NoError(t, store.Clear())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, models.KindCustomer, store.User().Kind)

	// Clearing an already-clear store is fine.
	require.NoError(t, store.Clear())
}

func TestFileStore_MissingFileIsSignedOut(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	assert.Empty(t, store.AccessToken())
	assert.Equal(t, models.KindCustomer, store.User().Kind)
}

func TestHasPermission(t *testing.T) {
	store := NewMemoryStore()
	c := New("http://localhost", store)

	// Signed out: CUSTOMER only.
	assert.False(t, c.HasPermission(models.KindStaff, models.KindAdmin))
	assert.True(t, c.HasPermission(models.KindCustomer))

	_ = store.Write(Session{User: models.User{Kind: models.KindStaff}})
	assert.True(t, c.HasPermission(models.KindStaff))
	assert.True(t, c.HasPermission(models.KindAdmin, models.KindStaff))
	assert.False(t, c.HasPermission(models.KindAdmin, models.KindSuperAdmin))
}
