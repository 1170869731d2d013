// Package cryptox holds the client-side cryptographic core: passphrase key
// derivation, the login credential digest and the AES-GCM record engine.
package cryptox

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the per-account salt length generated by the backend.
	SaltSize = 16

	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// KDFIterations is the fixed PBKDF2 work factor. Changing it makes
	// existing records undecryptable.
	KDFIterations = 100_000
)

// Replaceable for testing error paths.
var randRead = func(b []byte) (int, error) { return rand.Read(b) }

// DeriveKey derives the 256-bit encryption key from a passphrase and the
// account salt using PBKDF2-HMAC-SHA256. The output is deterministic for a
// given (passphrase, salt) pair, which is what allows the key to be rebuilt
// on every login without ever being stored.
//
// The salt must be exactly SaltSize bytes, otherwise ErrInvalidInputLength
// is returned.
func DeriveKey(passphrase, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt of %d bytes: %w", len(salt), common.ErrInvalidInputLength)
	}
	return pbkdf2.Key(passphrase, salt, KDFIterations, KeySize, sha256.New), nil
}

// DeriveKeyContext runs DeriveKey off the caller's goroutine and returns as
// soon as either the key is ready or ctx is done. A cancelled derivation is
// discarded: its key is wiped when the computation finishes.
func DeriveKeyContext(ctx context.Context, passphrase, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt of %d bytes: %w", len(salt), common.ErrInvalidInputLength)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// pbkdf2 reads the inputs for the whole run, the caller may wipe theirs
	pw := append([]byte(nil), passphrase...)
	s := append([]byte(nil), salt...)

	type result struct {
		key []byte
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer common.WipeByteArray(pw)
		key, err := DeriveKey(pw, s)
		done <- result{key: key, err: err}
	}()

	select {
	case r := <-done:
		return r.key, r.err
	case <-ctx.Done():
		go func() {
			r := <-done
			common.WipeByteArray(r.key)
		}()
		return nil, ctx.Err()
	}
}

// GenerateSalt returns SaltSize bytes from crypto/rand.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := randRead(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}
