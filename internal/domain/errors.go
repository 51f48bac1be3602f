// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// Directory errors
	ErrDuplicateName        = errors.New("organization name already exists")
	ErrOrganizationNotFound = errors.New("organization not found")

	// Admin-related errors
	ErrAdminNotFound      = errors.New("admin not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")
)
