package session

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	tokenEntry = "token"
	userEntry  = "user.json"
)

// CredStore is the durable client-side storage for the session: two
// named entries under a state directory, one holding the bearer token
// and one the serialized user record. Absence of either entry means
// logged out.
type CredStore struct {
	dir string
}

// NewCredStore creates a credential store rooted at dir. The
// directory is created lazily on first save.
func NewCredStore(dir string) *CredStore {
	return &CredStore{dir: dir}
}

// Save persists the token and the serialized user record.
func (s *CredStore) Save(token string, user []byte) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenEntry), []byte(token), 0o600); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, userEntry), user, 0o600)
}

// Token returns the persisted bearer token, or "" if absent.
func (s *CredStore) Token() string {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenEntry))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// User returns the persisted serialized user record, or nil if absent.
func (s *CredStore) User() []byte {
	data, err := os.ReadFile(filepath.Join(s.dir, userEntry))
	if err != nil {
		return nil
	}
	return data
}

// Clear removes both entries. It is idempotent and never fails;
// removal errors leave the caller logged out either way.
func (s *CredStore) Clear() {
	os.Remove(filepath.Join(s.dir, tokenEntry))
	os.Remove(filepath.Join(s.dir, userEntry))
}
