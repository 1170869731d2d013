package models

import "time"

// Record is an opaque sealed credential owned by one user.
type Record struct {
	ID         string
	UserID     string
	Ciphertext []byte
	Nonce      []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
