package cli

import (
	"errors"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/common"
)

// describe turns a command error into the line shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrKeyUnavailable):
		return common.ErrKeyUnavailable.Error()
	case errors.Is(err, common.ErrSessionActive):
		return "already logged in, use 'logout' first"
	case errors.Is(err, client.ErrUnauthorized):
		return "not authorized: wrong email or passphrase, or the session is no longer valid"
	case errors.Is(err, client.ErrAlreadyExists):
		return "an account with this email already exists"
	case errors.Is(err, client.ErrNotFound):
		return "record not found"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, common.ErrAuthenticationFailed):
		return "record could not be decrypted"
	default:
		return err.Error()
	}
}
