package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

// NonceSize is the AES-GCM nonce length used for every sealed record.
const NonceSize = 12

// Seal encrypts plaintext with AES-256-GCM under key.
//
// A fresh random 12-byte nonce is drawn for every call and returned next to
// the ciphertext; the ciphertext carries the 16-byte GCM tag at its end.
//
// Parameters:
//   - plaintext: bytes to protect, usually an encoded record.
//   - key: the 32-byte session encryption key.
//
// Returns:
//   - ciphertext: encrypted bytes with the authentication tag appended.
//   - nonce: the random nonce needed by Open.
//   - err: ErrInvalidInputLength for a wrong key size, or a wrapped
//     randomness failure.
//
// Example:
//
//	key, _ := cryptox.DeriveKey([]byte("Tr0ub4dor&3"), salt)
//	ct, nonce, err := cryptox.Seal([]byte(`{"service":"example.com"}`), key)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%x %x\n", ct, nonce)
func Seal(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, NonceSize)
	if _, err := randRead(nonce); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext = gcm.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Open reverses Seal. Any integrity failure (wrong key, flipped ciphertext
// or nonce bit, truncated tag) yields ErrAuthenticationFailed and no
// plaintext. Wrong key or nonce sizes yield ErrInvalidInputLength.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("nonce of %d bytes: %w", len(nonce), common.ErrInvalidInputLength)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrAuthenticationFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key of %d bytes: %w", len(key), common.ErrInvalidInputLength)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
