// Package session owns the encryption key for the lifetime of an
// authenticated session.
//
// A Manager moves through the states
//
//	Unauthenticated -> Authenticating -> Active -> LoggedOut | Expired
//
// and destroys the key (and the backend token) exactly once when the user
// logs out or the inactivity deadline passes. While Active, a snapshot of the
// session is kept in a volatile Store so that a reload within the same
// process can resume without asking for the passphrase again.
package session
