package models

// Session is the client-held record of an authenticated user and the
// bearer token that proves it. A non-nil session always carries a
// non-empty token.
type Session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"-"`
}
