// Package models holds the backend's persisted entities.
package models

import "time"

// User is an account. CredentialHash is the bcrypt hash of the client's
// authentication digest; Salt is the client's KDF salt, returned on every
// successful authentication and never changed.
type User struct {
	ID             string
	Email          string
	Salt           []byte
	CredentialHash []byte
	CreatedAt      time.Time
}
