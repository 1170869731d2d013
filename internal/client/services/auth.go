// Package services contains application services for the gophvault client.
// This file defines the authentication service: register, login, logout,
// session restore and reload, and the liveness probe.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/client/session"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// MinPassphraseLength is the shortest passphrase accepted at registration,
// counted in characters.
const MinPassphraseLength = 8

var (
	ErrPassphraseTooShort = fmt.Errorf("%w: passphrase must be at least %d characters", common.ErrorValidation, MinPassphraseLength)
	ErrPassphraseMismatch = fmt.Errorf("%w: passphrases do not match", common.ErrorValidation)
	ErrInvalidEmail       = fmt.Errorf("%w: email address is not valid", common.ErrorValidation)
)

// KeyDeriver turns a passphrase and the account salt into the session key.
type KeyDeriver func(ctx context.Context, passphrase, salt []byte) ([]byte, error)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create the account, then behave like Login.
//   - Login: send the passphrase digest, derive the key locally and activate the session.
//   - Logout: destroy the session and its stored snapshot.
//   - Restore: reactivate a stored session and confirm its token with the server.
//   - Reload: drop in-memory state and Restore, like a page reload.
//
// The passphrase itself never leaves the process.
type AuthService interface {
	Register(ctx context.Context, email string, passphrase, confirm []byte) error
	Login(ctx context.Context, email string, passphrase []byte) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) error
	Reload(ctx context.Context) error
	Ping(ctx context.Context) error
	State() session.State
}

type AuthOption func(*authService)

// WithKeyDeriver replaces cryptox.DeriveKeyContext.
func WithKeyDeriver(d KeyDeriver) AuthOption {
	return func(a *authService) { a.derive = d }
}

func WithAuthLogger(l logging.Logger) AuthOption {
	return func(a *authService) { a.logger = l }
}

type authService struct {
	client  client.Client
	session *session.Manager
	derive  KeyDeriver
	logger  logging.Logger
}

// NewAuthService constructs an AuthService bound to the API client and the
// session manager.
func NewAuthService(c client.Client, m *session.Manager, opts ...AuthOption) AuthService {
	a := &authService{
		client:  c,
		session: m,
		derive:  cryptox.DeriveKeyContext,
		logger:  logging.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *authService) Register(ctx context.Context, email string, passphrase, confirm []byte) error {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if utf8.RuneCount(passphrase) < MinPassphraseLength {
		return ErrPassphraseTooShort
	}
	if string(passphrase) != string(confirm) {
		return ErrPassphraseMismatch
	}

	if err := a.authenticate(ctx, email, passphrase, a.client.Register); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	a.logger.Info(ctx, "account registered")
	return nil
}

func (a *authService) Login(ctx context.Context, email string, passphrase []byte) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrInvalidEmail
	}
	if err := a.authenticate(ctx, email, passphrase, a.client.Login); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// authenticate runs the shared tail of Register and Login. Any failure after
// Begin returns the manager to Unauthenticated.
func (a *authService) authenticate(
	ctx context.Context,
	email string,
	passphrase []byte,
	call func(ctx context.Context, email string, credential []byte) (models.Grant, error),
) error {
	if err := a.session.Begin(); err != nil {
		return err
	}

	digest := cryptox.AuthDigest(passphrase)
	grant, err := call(ctx, email, digest)
	common.WipeByteArray(digest)
	if err != nil {
		a.session.Abort()
		return err
	}

	key, err := a.derive(ctx, passphrase, grant.Salt)
	if err != nil {
		a.session.Abort()
		return fmt.Errorf("derive key: %w", err)
	}

	if err := a.session.Activate(ctx, grant, key); err != nil {
		a.session.Abort()
		return err
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

// Restore reactivates the stored session. A token the server no longer
// accepts, or one issued to another account, ends the session with
// common.ErrSessionRestoreFailed. When the server cannot be reached the
// restored session is kept.
func (a *authService) Restore(ctx context.Context) error {
	if err := a.session.Restore(ctx); err != nil {
		return err
	}
	stored, err := a.session.Grant()
	if err != nil {
		return err
	}

	remote, err := a.client.Verify(ctx)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		_ = a.session.Logout(ctx)
		return fmt.Errorf("%w: %v", common.ErrSessionRestoreFailed, err)
	case err != nil:
		a.logger.Warn(ctx, "session restored without verification", "error", err)
		return nil
	case remote.AccountID != stored.AccountID:
		_ = a.session.Logout(ctx)
		return fmt.Errorf("%w: token issued to another account", common.ErrSessionRestoreFailed)
	}
	return nil
}

func (a *authService) Reload(ctx context.Context) error {
	a.session.Unload()
	return a.Restore(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) State() session.State {
	return a.session.State()
}
