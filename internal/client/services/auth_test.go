package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/client/session"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/stretchr/testify/require"
)

const (
	testEmail = "alice@example.com"
	testPass  = "correct horse battery"
)

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		pass    string
		confirm string
		wantErr error
	}{
		{"no at sign", "alice.example.com", testPass, testPass, ErrInvalidEmail},
		{"blank email", "   ", testPass, testPass, ErrInvalidEmail},
		{"short passphrase", testEmail, "1234567", "1234567", ErrPassphraseTooShort},
		{"short multibyte passphrase", testEmail, "ąęółśżź", "ąęółśżź", ErrPassphraseTooShort},
		{"mismatch", testEmail, testPass, testPass + "!", ErrPassphraseMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			err := f.auth.Register(context.Background(), tt.email, []byte(tt.pass), []byte(tt.confirm))
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, common.ErrorValidation)
			require.Zero(t, f.client.Calls)
			require.Equal(t, session.StateUnauthenticated, f.auth.State())
		})
	}
}

func TestRegister_ActivatesSession(t *testing.T) {
	var gotSalt []byte
	f := newFixture(WithKeyDeriver(func(ctx context.Context, p, salt []byte) ([]byte, error) {
		gotSalt = append([]byte(nil), salt...)
		return fastDerive(ctx, p, salt)
	}))

	err := f.auth.Register(context.Background(), "  "+testEmail+" ", []byte(testPass), []byte(testPass))
	require.NoError(t, err)
	require.Equal(t, session.StateActive, f.auth.State())

	require.Equal(t, cryptox.AuthDigest([]byte(testPass)), f.client.LastCredential)
	require.NotContains(t, string(f.client.LastCredential), testPass)

	g, err := f.session.Grant()
	require.NoError(t, err)
	require.Equal(t, testEmail, g.Email)
	require.Equal(t, g.Salt, gotSalt)

	tok, err := f.session.Token()
	require.NoError(t, err)
	require.Equal(t, "token-acc-1", tok)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, testEmail, []byte(testPass), []byte(testPass)))
	require.NoError(t, f.auth.Logout(ctx))

	err := f.auth.Register(ctx, testEmail, []byte(testPass), []byte(testPass))
	require.ErrorIs(t, err, client.ErrAlreadyExists)
	require.Equal(t, session.StateUnauthenticated, f.auth.State())
}

func TestLogin_WrongPassphrase(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, testEmail, []byte(testPass), []byte(testPass)))
	require.NoError(t, f.auth.Logout(ctx))

	err := f.auth.Login(ctx, testEmail, []byte("wrong passphrase"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	require.Equal(t, session.StateUnauthenticated, f.auth.State())

	_, err = f.session.Token()
	require.ErrorIs(t, err, common.ErrKeyUnavailable)
}

func TestLogin_DeriveFailureAborts(t *testing.T) {
	boom := errors.New("boom")
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, testEmail, []byte(testPass), []byte(testPass)))
	require.NoError(t, f.auth.Logout(ctx))

	failing := NewAuthService(f.client, f.session, WithKeyDeriver(func(context.Context, []byte, []byte) ([]byte, error) {
		return nil, boom
	}))
	err := failing.Login(ctx, testEmail, []byte(testPass))
	require.ErrorIs(t, err, boom)
	require.Equal(t, session.StateUnauthenticated, f.auth.State())
}

func TestLogin_CancelledDerivation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, testEmail, []byte(testPass), []byte(testPass)))
	require.NoError(t, f.auth.Logout(ctx))

	svc := NewAuthService(f.client, f.session)
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	err := svc.Login(cctx, testEmail, []byte(testPass))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, session.StateUnauthenticated, f.auth.State())
}

func TestLogin_WhileActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, testEmail, []byte(testPass), []byte(testPass)))

	calls := f.client.Calls
	err := f.auth.Login(ctx, testEmail, []byte(testPass))
	require.ErrorIs(t, err, common.ErrSessionActive)
	require.Equal(t, calls, f.client.Calls)
	require.Equal(t, session.StateActive, f.auth.State())
}

func TestLogout_ClearsStore(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, testEmail, []byte(testPass), []byte(testPass)))

	require.NoError(t, f.auth.Logout(ctx))
	require.Equal(t, session.StateLoggedOut, f.auth.State())

	_, err := f.store.Load(ctx)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name      string
		verifyErr error
		accountID string
		wantErr   error
		wantState session.State
		wantStore bool
	}{
		{name: "verified", wantState: session.StateActive, wantStore: true},
		{name: "server unavailable keeps session", verifyErr: client.ErrUnavailable, wantState: session.StateActive, wantStore: true},
		{name: "token rejected", verifyErr: client.ErrUnauthorized, wantErr: common.ErrSessionRestoreFailed, wantState: session.StateLoggedOut},
		{name: "other account", accountID: "acc-99", wantErr: common.ErrSessionRestoreFailed, wantState: session.StateLoggedOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			require.NoError(t, f.auth.Register(ctx, testEmail, []byte(testPass), []byte(testPass)))

			// a second process sharing the store
			m := session.NewManager(0, session.WithStore(f.store))
			auth := NewAuthService(f.client, m, WithKeyDeriver(fastDerive))

			f.client.VerifyErr = tt.verifyErr
			f.client.VerifyAccountID = tt.accountID

			err := auth.Restore(ctx)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantState, auth.State())

			_, err = f.store.Load(ctx)
			if tt.wantStore {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, common.ErrorNotFound)
			}
		})
	}
}

func TestRestore_NothingStored(t *testing.T) {
	f := newFixture()
	err := f.auth.Restore(context.Background())
	require.ErrorIs(t, err, common.ErrSessionRestoreFailed)
	require.Equal(t, session.StateUnauthenticated, f.auth.State())
	require.Zero(t, f.client.Calls)
}

func TestReload_KeepsRecordsReadable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, testEmail, []byte(testPass), []byte(testPass)))

	added, err := f.records.Add(ctx, sampleRecord())
	require.NoError(t, err)

	require.NoError(t, f.auth.Reload(ctx))
	require.Equal(t, session.StateActive, f.auth.State())

	got, err := f.records.Get(ctx, added.ID)
	require.NoError(t, err)
	require.Equal(t, sampleRecord(), got.Record)
}

func TestReload_AfterLogoutFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, testEmail, []byte(testPass), []byte(testPass)))
	require.NoError(t, f.auth.Logout(ctx))

	err := f.auth.Reload(ctx)
	require.ErrorIs(t, err, common.ErrSessionRestoreFailed)
}

func TestPing(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.auth.Ping(context.Background()))

	f.client.PingErr = client.ErrUnavailable
	require.ErrorIs(t, f.auth.Ping(context.Background()), client.ErrUnavailable)
}
