package session

// AuthError is returned for any registration or login failure:
// network failure, non-2xx response, or a malformed response body.
// Message carries the server-provided text when the server gave one,
// otherwise a generic transport message. No distinction is made
// between transient and permanent failures, and nothing is retried.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return "auth: " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
