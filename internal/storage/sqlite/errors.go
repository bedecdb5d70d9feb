package sqlite

import "errors"

var (
	// ErrNotFound indicates that a session or value row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSessionID indicates an empty session ID.
	ErrInvalidSessionID = errors.New("invalid session ID")
)
