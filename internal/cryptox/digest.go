package cryptox

import "crypto/sha256"

// DigestSize is the length of the login credential produced by AuthDigest.
const DigestSize = sha256.Size

// AuthDigest returns SHA-256 over the passphrase. The result is the login
// credential handed to the backend, which hashes it again before storing.
// It shares no derivation path with DeriveKey.
func AuthDigest(passphrase []byte) []byte {
	sum := sha256.Sum256(passphrase)
	return sum[:]
}
