package reveal

import "errors"

// Sentinel errors for session management.
var (
	// ErrNilDocument is returned when opening a session without a document.
	ErrNilDocument = errors.New("nil document")

	// ErrNilSource is returned when opening a session without an element source.
	ErrNilSource = errors.New("nil element source")

	// ErrSessionExists is returned when a document already has a session.
	ErrSessionExists = errors.New("session already exists")

	// ErrSessionNotFound is returned when no session exists for a document.
	ErrSessionNotFound = errors.New("session not found")
)
