// Package httpclient wraps outbound HTTP calls to the pricing and
// file-analysis backends with bearer auth, bounded retry for transient
// network failures, and session clearing on 401.
package httpclient

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Two persisted keys mirror the storefront session: an opaque bearer token
// and a serialized user record. Both are set on login and cleared together
// on logout or a 401.
const (
	sessionTokenFile = "auth_token"
	sessionUserFile  = "auth_user"
)

// SessionStore holds the bearer token and user record used by Client.
type SessionStore interface {
	Token() string
	User() string
	SetSession(token, user string)
	Clear()
}

// FileSessionStore persists the session under a directory, one file per key.
// Writes are last-write-wins; they only happen on explicit login/logout.
type FileSessionStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileSessionStore creates a store rooted at dir.
func NewFileSessionStore(dir string) *FileSessionStore {
	return &FileSessionStore{dir: dir}
}

// Token returns the stored bearer token, or "" when absent.
func (s *FileSessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(filepath.Join(s.dir, sessionTokenFile))
	if err != nil {
		return ""
	}
	return string(data)
}

// User returns the serialized user record, or "" when absent.
func (s *FileSessionStore) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(filepath.Join(s.dir, sessionUserFile))
	if err != nil {
		return ""
	}
	return string(data)
}

// SetSession stores both keys.
func (s *FileSessionStore) SetSession(token, user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = os.MkdirAll(s.dir, 0o755)
	_ = os.WriteFile(filepath.Join(s.dir, sessionTokenFile), []byte(token), 0o600)
	_ = os.WriteFile(filepath.Join(s.dir, sessionUserFile), []byte(user), 0o600)
}

// Clear removes both keys. Called on logout and on any 401 response.
func (s *FileSessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = os.Remove(filepath.Join(s.dir, sessionTokenFile))
	_ = os.Remove(filepath.Join(s.dir, sessionUserFile))
}

// MemorySessionStore is an in-memory SessionStore for tests and the job
// runner.
type MemorySessionStore struct {
	mu    sync.RWMutex
	token string
	user  string
}

// NewMemorySessionStore creates an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// Token returns the stored bearer token.
func (s *MemorySessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the serialized user record.
func (s *MemorySessionStore) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetSession stores both keys.
func (s *MemorySessionStore) SetSession(token, user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// Clear removes both keys.
func (s *MemorySessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = ""
}

// MarshalUser serializes a user record for storage.
func MarshalUser(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
