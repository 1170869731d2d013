// Package grpc exposes the vault backend over gRPC: account registration,
// login and token verification, and owner-scoped CRUD over sealed records.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, email string, credential []byte) (*services.AuthResult, error)
	Login(ctx context.Context, email string, credential []byte) (*services.AuthResult, error)
	Verify(ctx context.Context, userID string) (*models.User, error)
}

type recordSvc interface {
	Create(ctx context.Context, userID string, ciphertext, nonce []byte) (*models.Record, error)
	List(ctx context.Context, userID string) ([]*models.Record, error)
	Update(ctx context.Context, userID, id string, ciphertext, nonce []byte) (*models.Record, error)
	Delete(ctx context.Context, userID, id string) error
}

type GRPCServer struct {
	rpc.UnimplementedVaultServiceServer
	address   string
	users     userSvc
	records   recordSvc
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us *services.UserService, rs *services.RecordService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		records:   rs,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer builds the grpc.Server with the access-token interceptor and
// registers the vault service on it.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	rpc.RegisterVaultServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, l net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", l.Addr().String())

	if err := srv.Serve(l); err != nil {
		return err
	}

	return nil
}
