package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophvault/internal/client/session"
	"github.com/dmitrijs2005/gophvault/internal/common"
)

// Register prompts for an email and a passphrase typed twice, creates the
// account and logs in. The passphrase buffers are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	pass, err := GetPassword(a.reader, "Enter passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)
	confirm, err := GetPassword(a.reader, "Repeat passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	stop := startSpinner(a.out, "Creating account and deriving key...")
	err = a.auth.Register(ctx, email, pass, confirm)
	stop()
	if err != nil {
		return err
	}

	a.success("Registered and logged in as %s", a.status())
	return nil
}

// Login prompts for credentials and activates a session. On success the
// vault is listed right away.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		return common.ErrSessionActive
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	pass, err := GetPassword(a.reader, "Enter passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	stop := startSpinner(a.out, "Deriving key...")
	err = a.auth.Login(ctx, email, pass)
	stop()
	if err != nil {
		return err
	}

	a.success("Logged in as %s", a.status())
	return a.List(ctx, "")
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.success("Logged out")
	return nil
}

// Reload throws away the in-memory session and brings it back from the
// volatile store, the way a page reload would.
func (a *App) Reload(ctx context.Context) error {
	err := a.auth.Reload(ctx)
	switch {
	case err == nil:
		a.success("Session restored for %s", a.status())
		return nil
	case errors.Is(err, common.ErrSessionRestoreFailed) && a.auth.State() != session.StateActive:
		a.warn("No session to restore, please log in")
		return nil
	default:
		return err
	}
}
