package grpc

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const nonceHex = "000102030405060708090a0b"

func TestPing_OK(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeRecord{})
	resp, err := s.Ping(context.Background(), &rpc.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestRegister_OK(t *testing.T) {
	u := &fakeUser{authResp: &services.AuthResult{
		Token: "tok",
		User:  &models.User{ID: "42", Email: "a@b.c", Salt: []byte{0xab, 0xcd}},
	}}
	s := newServer(u, &fakeRecord{})

	resp, err := s.Register(context.Background(), &rpc.RegisterRequest{Email: "a@b.c", Credential: "0a0b"})
	require.NoError(t, err)
	assert.Equal(t, &rpc.AuthResponse{Token: "tok", AccountID: "42", Email: "a@b.c", Salt: "abcd"}, resp)
	assert.Equal(t, []byte{0x0a, 0x0b}, u.gotCred)
}

func TestRegister_BadHex(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeRecord{})
	_, err := s.Register(context.Background(), &rpc.RegisterRequest{Email: "a@b.c", Credential: "zz"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestAuth_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{common.ErrorAlreadyExists, codes.AlreadyExists},
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrorValidation, codes.InvalidArgument},
		{common.ErrorInternal, codes.Internal},
		{errors.New("db down"), codes.Internal},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			s := newServer(&fakeUser{authErr: tt.err}, &fakeRecord{})
			_, err := s.Login(context.Background(), &rpc.LoginRequest{Email: "a@b.c", Credential: "00"})
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestInternalErrorsHideDetail(t *testing.T) {
	s := newServer(&fakeUser{authErr: errors.New("password column missing")}, &fakeRecord{})
	_, err := s.Login(context.Background(), &rpc.LoginRequest{Credential: "00"})
	assert.NotContains(t, status.Convert(err).Message(), "password column")
}

func TestVerify(t *testing.T) {
	u := &fakeUser{verifyOut: &models.User{ID: "u1", Email: "a@b.c", Salt: []byte{1}}}
	s := newServer(u, &fakeRecord{})

	resp, err := s.Verify(authed("u1"), &rpc.VerifyRequest{})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.AccountID)
	assert.Equal(t, "01", resp.Salt)

	_, err = s.Verify(context.Background(), &rpc.VerifyRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestCreateRecord(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &fakeRecord{out: &models.Record{ID: "r1", CreatedAt: now}}
	s := newServer(&fakeUser{}, r)

	resp, err := s.CreateRecord(authed("u1"), &rpc.CreateRecordRequest{Ciphertext: "deadbeef", Nonce: nonceHex})
	require.NoError(t, err)
	assert.Equal(t, "r1", resp.ID)
	assert.True(t, resp.CreatedAt.AsTime().Equal(now))
	assert.Equal(t, "u1", r.gotUser)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, r.gotCT)
	assert.Len(t, r.gotN, 12)
}

func TestCreateRecord_InvalidArgument(t *testing.T) {
	tests := []struct {
		name  string
		ct    string
		nonce string
	}{
		{"ciphertext not hex", "xyz", nonceHex},
		{"nonce too short", "00", "0001"},
		{"nonce too long", "00", nonceHex + "00"},
		{"nonce not hex", "00", strings.Repeat("g", 24)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(&fakeUser{}, &fakeRecord{})
			_, err := s.CreateRecord(authed("u1"), &rpc.CreateRecordRequest{Ciphertext: tt.ct, Nonce: tt.nonce})
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestListRecords(t *testing.T) {
	r := &fakeRecord{list: []*models.Record{
		{ID: "r2", Ciphertext: []byte{1}, Nonce: []byte{2}},
		{ID: "r1", Ciphertext: []byte{3}, Nonce: []byte{4}},
	}}
	s := newServer(&fakeUser{}, r)

	resp, err := s.ListRecords(authed("u1"), &rpc.ListRecordsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "r2", resp.Records[0].ID)
	assert.Equal(t, "01", resp.Records[0].Ciphertext)
	assert.Equal(t, "04", resp.Records[1].Nonce)
}

func TestUpdateAndDelete_NotFound(t *testing.T) {
	r := &fakeRecord{err: common.ErrorNotFound}
	s := newServer(&fakeUser{}, r)

	_, err := s.UpdateRecord(authed("u1"), &rpc.UpdateRecordRequest{ID: "r1", Ciphertext: "00", Nonce: nonceHex})
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "r1", r.gotID)

	_, err = s.DeleteRecord(authed("u1"), &rpc.DeleteRecordRequest{ID: "r1"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRecordHandlers_RequireUser(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeRecord{})
	ctx := context.Background()

	_, err := s.ListRecords(ctx, &rpc.ListRecordsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	_, err = s.CreateRecord(ctx, &rpc.CreateRecordRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	_, err = s.UpdateRecord(ctx, &rpc.UpdateRecordRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	_, err = s.DeleteRecord(ctx, &rpc.DeleteRecordRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
