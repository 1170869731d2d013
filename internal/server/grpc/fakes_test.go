package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/services"
)

type fakeUser struct {
	authResp  *services.AuthResult
	authErr   error
	verifyOut *models.User
	verifyErr error

	gotEmail string
	gotCred  []byte
}

func (f *fakeUser) Register(_ context.Context, email string, cred []byte) (*services.AuthResult, error) {
	f.gotEmail, f.gotCred = email, cred
	return f.authResp, f.authErr
}

func (f *fakeUser) Login(_ context.Context, email string, cred []byte) (*services.AuthResult, error) {
	f.gotEmail, f.gotCred = email, cred
	return f.authResp, f.authErr
}

func (f *fakeUser) Verify(context.Context, string) (*models.User, error) {
	return f.verifyOut, f.verifyErr
}

type fakeRecord struct {
	out     *models.Record
	list    []*models.Record
	err     error
	gotUser string
	gotID   string
	gotCT   []byte
	gotN    []byte
}

func (f *fakeRecord) Create(_ context.Context, userID string, ct, nonce []byte) (*models.Record, error) {
	f.gotUser, f.gotCT, f.gotN = userID, ct, nonce
	return f.out, f.err
}

func (f *fakeRecord) List(_ context.Context, userID string) ([]*models.Record, error) {
	f.gotUser = userID
	return f.list, f.err
}

func (f *fakeRecord) Update(_ context.Context, userID, id string, ct, nonce []byte) (*models.Record, error) {
	f.gotUser, f.gotID, f.gotCT, f.gotN = userID, id, ct, nonce
	return f.out, f.err
}

func (f *fakeRecord) Delete(_ context.Context, userID, id string) error {
	f.gotUser, f.gotID = userID, id
	return f.err
}

func newServer(u userSvc, r recordSvc) *GRPCServer {
	return &GRPCServer{
		address:   "127.0.0.1:0",
		users:     u,
		records:   r,
		logger:    logging.Nop(),
		jwtSecret: []byte("k"),
	}
}

func authed(userID string) context.Context {
	return context.WithValue(context.Background(), userIDKey, userID)
}
