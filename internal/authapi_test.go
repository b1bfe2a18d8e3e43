package internal

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"assettrack/internal/auth"
	"assettrack/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-that-is-long-enough!"

func newAuthServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	server, mock := newMockServer(t)
	server.JWTManager = auth.NewJWTManager(testSecret, "assettrack", "assettrack", time.Hour)
	return server, mock
}

func TestRegisterValidation(t *testing.T) {
	server, _ := newAuthServer(t)

	body, err := json.Marshal(models.RegisterRequest{Email: "alice@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/auth/local/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.registerUser(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username, email, and password are required", decodeErrorMessage(t, w))
}

func TestRegisterReturnsTokenAndUser(t *testing.T) {
	server, mock := newAuthServer(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg(), "member").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, time.Now()))

	body, err := json.Marshal(models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/auth/local/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.registerUser(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JWT)
	assert.Equal(t, int64(42), resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)

	// The token must be usable against the protected routes.
	claims, err := server.JWTManager.ValidateToken(resp.JWT)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	server, mock := newAuthServer(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "users_email_key"`))

	body, err := json.Marshal(models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/auth/local/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.registerUser(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email or username already taken", decodeErrorMessage(t, w))
}

func loginRows(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "department_id", "role", "created_at",
	}).AddRow(42, "alice", "alice@example.com", string(hash), nil, "member", time.Now())
}

func TestLoginUnknownIdentifier(t *testing.T) {
	server, mock := newAuthServer(t)

	mock.ExpectQuery(`FROM users`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	body, err := json.Marshal(models.LoginRequest{Identifier: "ghost@example.com", Password: "whatever"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/auth/local", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.loginUser(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", decodeErrorMessage(t, w))
}

func TestLoginWrongPassword(t *testing.T) {
	server, mock := newAuthServer(t)

	mock.ExpectQuery(`FROM users`).
		WithArgs("alice@example.com").
		WillReturnRows(loginRows(t, "hunter22"))

	body, err := json.Marshal(models.LoginRequest{Identifier: "alice@example.com", Password: "wrong"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/auth/local", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.loginUser(w, req)

	// Same message as an unknown identifier; the response does not
	// reveal which half was wrong.
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", decodeErrorMessage(t, w))
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	for _, identifier := range []string{"alice", "alice@example.com"} {
		t.Run(identifier, func(t *testing.T) {
			server, mock := newAuthServer(t)

			mock.ExpectQuery(`FROM users`).
				WithArgs(identifier).
				WillReturnRows(loginRows(t, "hunter22"))

			body, err := json.Marshal(models.LoginRequest{Identifier: identifier, Password: "hunter22"})
			require.NoError(t, err)

			req := httptest.NewRequest("POST", "/api/auth/local", bytes.NewReader(body))
			w := httptest.NewRecorder()
			server.loginUser(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var resp models.AuthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.JWT)
			assert.Equal(t, "alice", resp.User.Username)

			// The stored hash never leaves the server.
			assert.NotContains(t, w.Body.String(), "password_hash")
		})
	}
}
