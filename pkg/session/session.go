// Package session owns the authenticated-user lifecycle against the
// identity endpoints: register, login, logout, and restore-on-start.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"assettrack/internal/models"
)

// Manager holds the single active session for the process. It is
// injected into its consumers rather than accessed as a global; the
// last writer wins if several processes share the same state
// directory.
type Manager struct {
	authURL    string
	httpClient *http.Client
	creds      *CredStore

	mu      sync.Mutex
	current *models.Session
}

// NewManager creates a session manager and restores any persisted
// session. A nil httpClient falls back to http.DefaultClient.
func NewManager(authURL string, httpClient *http.Client, creds *CredStore) *Manager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	m := &Manager{
		authURL:    strings.TrimRight(authURL, "/"),
		httpClient: httpClient,
		creds:      creds,
	}
	m.current = m.restore()
	return m
}

// restore reads the persisted entries. A malformed user record is
// treated as absent, not as an error.
func (m *Manager) restore() *models.Session {
	token := m.creds.Token()
	raw := m.creds.User()
	if token == "" || len(raw) == 0 {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil
	}
	return &models.Session{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	}
}

// Register creates an account at the identity endpoint. The username
// is derived from the local part of the email (text before '@').
func (m *Manager) Register(ctx context.Context, email, password string) (*models.Session, error) {
	username := email
	if i := strings.Index(email, "@"); i >= 0 {
		username = email[:i]
	}
	return m.authenticate(ctx, "/api/auth/local/register", models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
}

// Login authenticates an existing account. The identifier may be an
// email or a username, per the backend's convention.
func (m *Manager) Login(ctx context.Context, identifier, password string) (*models.Session, error) {
	return m.authenticate(ctx, "/api/auth/local", models.LoginRequest{
		Identifier: identifier,
		Password:   password,
	})
}

func (m *Manager) authenticate(ctx context.Context, path string, payload interface{}) (*models.Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &AuthError{Message: "encoding request failed", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &AuthError{Message: "building request failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AuthError{Message: "reading response failed", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(data)
		if msg == "" {
			msg = "authentication failed: " + resp.Status
		}
		return nil, &AuthError{Message: msg}
	}

	var out models.AuthResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &AuthError{Message: "malformed response", Err: err}
	}
	if out.JWT == "" {
		return nil, &AuthError{Message: "malformed response: missing token"}
	}

	userJSON, err := json.Marshal(out.User)
	if err != nil {
		return nil, &AuthError{Message: "encoding user record failed", Err: err}
	}
	if err := m.creds.Save(out.JWT, userJSON); err != nil {
		return nil, &AuthError{Message: "persisting session failed", Err: err}
	}

	sess := &models.Session{
		UserID:   out.User.ID,
		Username: out.User.Username,
		Email:    out.User.Email,
		Token:    out.JWT,
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()
	return sess, nil
}

// Logout clears both persisted entries and the in-memory session. It
// is idempotent, never contacts the network, and cannot fail.
func (m *Manager) Logout() {
	m.creds.Clear()
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Current returns the active session, or nil when logged out.
func (m *Manager) Current() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Token returns the bearer token of the active session, or "" when
// logged out. Callers attach it to protected requests; an empty token
// means the request goes out unauthenticated and the server decides
// whether that is permitted.
func (m *Manager) Token() string {
	if s := m.Current(); s != nil {
		return s.Token
	}
	return ""
}

// serverMessage extracts the error.message field from an error body,
// returning "" when the body is not in that shape.
func serverMessage(data []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Error.Message
}
