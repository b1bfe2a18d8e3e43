package store

import "fmt"

// NotFoundError is returned when a lookup by id did not resolve to
// exactly one record. An ambiguous lookup (more than one match) is an
// error too; the client never picks one arbitrarily.
type NotFoundError struct {
	Collection string
	ID         int64
	Matches    int
}

func (e *NotFoundError) Error() string {
	if e.Matches > 1 {
		return fmt.Sprintf("store: lookup of %s id %d matched %d records", e.Collection, e.ID, e.Matches)
	}
	return fmt.Sprintf("store: %s id %d not found", e.Collection, e.ID)
}

// WriteError is returned when a create, update, or delete failed at
// the store. Message carries the store's own message when available.
type WriteError struct {
	Op         string
	Collection string
	Message    string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store: %s %s: %s", e.Op, e.Collection, e.Message)
}

// TransportError is returned for network-level failures and for read
// failures that carried no usable store response.
type TransportError struct {
	Op         string
	Collection string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
