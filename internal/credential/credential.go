// Package credential holds the single auth token shared by every outgoing request.
//
// The transport receives a Provider at construction time and asks it for the token on
// every call. Nothing caches the value, so a login or logout between two requests is
// always observed by the second one.
package credential

import "sync"

// Provider supplies the current token. ok is false when no usable token is stored.
type Provider interface {
	Token() (token string, ok bool)
}

// Store is a Provider that login/logout can write to.
type Store interface {
	Provider
	SetToken(token string) error
	ClearToken() error
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func() (string, bool)

// Token calls f.
func (f ProviderFunc) Token() (string, bool) { return f() }

// Normalize maps a raw stored value to a token. Empty values and the stringified
// "null"/"undefined" left behind by careless writers count as absent.
func Normalize(raw string) (string, bool) {
	switch raw {
	case "", "null", "undefined":
		return "", false
	}
	return raw, true
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns a store holding token (which may be empty).
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

// Token returns the stored token.
func (m *MemoryStore) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Normalize(m.token)
}

// SetToken replaces the stored token.
func (m *MemoryStore) SetToken(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

// ClearToken removes the stored token.
func (m *MemoryStore) ClearToken() error {
	return m.SetToken("")
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
