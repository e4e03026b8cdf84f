// Package models defines data structures used across the application.
// File: models/errors.go
package models

import "errors"

// ----------------------- error taxonomy -----------------------

var (
	// ErrInvalidCredentials is returned when a username/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound is returned when a record looked up by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorageFailure wraps filesystem and database I/O errors.
	ErrStorageFailure = errors.New("storage failure")
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")
)
