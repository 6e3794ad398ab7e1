package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/monline/billing/internal/models"
)

// Session holds the token pair and the cached profile of the signed-in user.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

// Store persists the session between requests. Implementations must be safe
// for concurrent use; the client reads tokens from multiple goroutines.
type Store interface {
	Write(s Session) error
	AccessToken() string
	RefreshToken() string
	// User returns the cached profile. With no session it returns a
	// zero-value profile whose Kind is CUSTOMER, so permission checks
	// degrade to the least privileged role.
	User() models.User
	Clear() error
}

// ==================== Memory store ====================

// MemoryStore keeps the session in memory. Used by tests and by callers
// that do not want persistence.
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Write(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

func (m *MemoryStore) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AccessToken
}

func (m *MemoryStore) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.RefreshToken
}

func (m *MemoryStore) User() models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return defaultKind(m.session.User)
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	return nil
}

// ==================== File store ====================

// FileStore persists the session as a JSON file so CLI invocations share
// one sign-in. The file is created with 0600; it holds credentials.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	session Session
}

// NewFileStore loads any existing session at path. A missing or unreadable
// file is treated as signed-out rather than an error.
func NewFileStore(path string) *FileStore {
	fs := &FileStore{path: path}
	data, err := os.ReadFile(path)
	if err == nil {
		_ = json.Unmarshal(data, &fs.session)
	}
	return fs
}

func (f *FileStore) Write(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = s
	return f.persist()
}

func (f *FileStore) AccessToken() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.session.AccessToken
}

func (f *FileStore) RefreshToken() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.session.RefreshToken
}

func (f *FileStore) User() models.User {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return defaultKind(f.session.User)
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = Session{}
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (f *FileStore) persist() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(f.session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func defaultKind(u models.User) models.User {
	if u.Kind == "" {
		u.Kind = models.KindCustomer
	}
	return u
}
