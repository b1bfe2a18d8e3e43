package internal

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"assettrack/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// registerUser handles account creation at the identity endpoint
func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     "member",
	}

	err = s.DB.QueryRowContext(r.Context(), `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		req.Username, req.Email, string(hashedPassword), user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			writeError(w, http.StatusBadRequest, "Email or username already taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := s.JWTManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{JWT: token, User: user})
}

// loginUser handles authentication of an existing account. The
// identifier may be an email or a username.
func (s *Server) loginUser(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Identifier == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Identifier and password are required")
		return
	}

	var user models.User
	var departmentID sql.NullInt64

	err := s.DB.QueryRowContext(r.Context(), `
		SELECT id, username, email, password_hash, department_id, role, created_at
		FROM users
		WHERE email = $1 OR username = $1`,
		req.Identifier,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&departmentID, &user.Role, &user.CreatedAt)

	if err == sql.ErrNoRows {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	if departmentID.Valid {
		user.DepartmentID = &departmentID.Int64
	}
	user.PasswordHash = ""

	token, err := s.JWTManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{JWT: token, User: user})
}
