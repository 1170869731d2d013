package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// HashCredential returns the bcrypt hash of the client's authentication digest.
func HashCredential(credential []byte, cost int) ([]byte, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword(credential, cost)
	if err != nil {
		return nil, fmt.Errorf("hash credential: %w", err)
	}
	return h, nil
}

// CheckCredential reports whether credential matches hash. A mismatch is
// (false, nil); a malformed hash is an error.
func CheckCredential(hash, credential []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, credential)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
