package grpc

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.AuthResponse, error) {
	s.logger.Info(ctx, "Registration request")

	cred, err := hex.DecodeString(req.Credential)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "credential must be hex")
	}

	result, err := s.users.Register(ctx, req.Email, cred)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", result.User.ID)
	return authResponse(result.Token, result.User), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.AuthResponse, error) {
	cred, err := hex.DecodeString(req.Credential)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "credential must be hex")
	}

	result, err := s.users.Login(ctx, req.Email, cred)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return authResponse(result.Token, result.User), nil
}

func (s *GRPCServer) Verify(ctx context.Context, _ *rpc.VerifyRequest) (*rpc.VerifyResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Verify(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpc.VerifyResponse{AccountID: user.ID, Email: user.Email, Salt: hex.EncodeToString(user.Salt)}, nil
}

func (s *GRPCServer) CreateRecord(ctx context.Context, req *rpc.CreateRecordRequest) (*rpc.CreateRecordResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ct, nonce, err := decodeSealed(req.Ciphertext, req.Nonce)
	if err != nil {
		return nil, err
	}

	rec, err := s.records.Create(ctx, userID, ct, nonce)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpc.CreateRecordResponse{ID: rec.ID, CreatedAt: timestamppb.New(rec.CreatedAt)}, nil
}

func (s *GRPCServer) ListRecords(ctx context.Context, _ *rpc.ListRecordsRequest) (*rpc.ListRecordsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.records.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &rpc.ListRecordsResponse{Records: make([]*rpc.Record, 0, len(list))}
	for _, r := range list {
		resp.Records = append(resp.Records, &rpc.Record{
			ID:         r.ID,
			Ciphertext: hex.EncodeToString(r.Ciphertext),
			Nonce:      hex.EncodeToString(r.Nonce),
			CreatedAt:  timestamppb.New(r.CreatedAt),
			UpdatedAt:  timestamppb.New(r.UpdatedAt),
		})
	}
	return resp, nil
}

func (s *GRPCServer) UpdateRecord(ctx context.Context, req *rpc.UpdateRecordRequest) (*rpc.UpdateRecordResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ct, nonce, err := decodeSealed(req.Ciphertext, req.Nonce)
	if err != nil {
		return nil, err
	}

	rec, err := s.records.Update(ctx, userID, req.ID, ct, nonce)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpc.UpdateRecordResponse{UpdatedAt: timestamppb.New(rec.UpdatedAt)}, nil
}

func (s *GRPCServer) DeleteRecord(ctx context.Context, req *rpc.DeleteRecordRequest) (*rpc.DeleteRecordResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.records.Delete(ctx, userID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpc.DeleteRecordResponse{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func authResponse(token string, u *models.User) *rpc.AuthResponse {
	return &rpc.AuthResponse{
		Token:     token,
		AccountID: u.ID,
		Email:     u.Email,
		Salt:      hex.EncodeToString(u.Salt),
	}
}

// decodeSealed checks the hex wire form: ciphertext must decode and the
// nonce must be exactly 12 bytes (24 hex chars).
func decodeSealed(ciphertext, nonce string) ([]byte, []byte, error) {
	ct, err := hex.DecodeString(ciphertext)
	if err != nil {
		return nil, nil, status.Error(codes.InvalidArgument, "ciphertext must be hex")
	}
	if len(nonce) != 2*cryptox.NonceSize {
		return nil, nil, status.Error(codes.InvalidArgument, "nonce must be 24 hex chars")
	}
	n, err := hex.DecodeString(nonce)
	if err != nil {
		return nil, nil, status.Error(codes.InvalidArgument, "nonce must be hex")
	}
	return ct, n, nil
}

// toStatus maps service errors onto gRPC codes. Unexpected errors are
// logged and surface as Internal without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
