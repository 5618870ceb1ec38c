package domain

import "errors"

var (
	// ErrNotFound is returned when a session id is unknown.
	ErrNotFound = errors.New("session not found")

	// ErrAlreadyExists is returned when a session id is already taken.
	ErrAlreadyExists = errors.New("session already exists")

	// ErrUnavailable is returned when the session backend cannot be reached.
	ErrUnavailable = errors.New("session backend unavailable")

	// ErrValidation is returned when input is rejected before reaching the store.
	ErrValidation = errors.New("validation rejected")
)
