// Package common defines shared constants and sentinel errors used across
// client and server layers of gophvault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Client-side cryptographic core.
	ErrInvalidInputLength   = errors.New("invalid input length")
	ErrAuthenticationFailed = errors.New("failed to decrypt data: wrong key or corrupted data")

	// Session lifecycle errors.
	ErrKeyUnavailable       = errors.New("encryption key unavailable, please log in again")
	ErrSessionRestoreFailed = errors.New("session restore failed")
	ErrSessionActive        = errors.New("session already active")
)
