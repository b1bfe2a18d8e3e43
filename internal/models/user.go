package models

import "time"

// User represents a dashboard user. The client layer treats users as
// read-only; accounts are created through the identity endpoints.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	DepartmentID *int64    `json:"department_id,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	Department *Department `json:"department,omitempty"`
}

// RegisterRequest is the request body for the register endpoint
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for the login endpoint.
// Identifier may be an email or a username.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AuthResponse is the success body for both identity endpoints.
// The token field keeps its historical wire name.
type AuthResponse struct {
	JWT  string `json:"jwt"`
	User User   `json:"user"`
}
