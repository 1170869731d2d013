package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenSource yields the current session token. An error means no session,
// and the call goes out without a token.
type TokenSource func() (string, error)

type GRPCClient struct {
	endpointURL    string
	requestTimeout time.Duration
	conn           *grpc.ClientConn
	client         rpc.VaultServiceClient

	mu          sync.RWMutex
	tokenSource TokenSource
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	s.mu.RLock()
	src := s.tokenSource
	s.mu.RUnlock()

	if src != nil {
		if token, err := src(); err == nil && token != "" {
			ctx = withAccessToken(ctx, token)
		}
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCClient) timeoutInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient creates a lazily-connecting client for endpointURL.
// requestTimeout bounds every call; zero disables the bound.
func NewGRPCClient(endpointURL string, requestTimeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, requestTimeout: requestTimeout}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(extra ...grpc.DialOption) error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(s.timeoutInterceptor, s.accessTokenInterceptor),
	}, extra...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewVaultServiceClient(conn)
	return nil
}

// SetTokenSource installs the session token provider.
func (s *GRPCClient) SetTokenSource(src TokenSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenSource = src
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, email string, credential []byte) (models.Grant, error) {
	resp, err := s.client.Register(ctx, &rpc.RegisterRequest{Email: email, Credential: hex.EncodeToString(credential)})
	if err != nil {
		return models.Grant{}, s.mapError(err)
	}
	return grantFrom(resp.Token, resp.AccountID, resp.Email, resp.Salt)
}

func (s *GRPCClient) Login(ctx context.Context, email string, credential []byte) (models.Grant, error) {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Email: email, Credential: hex.EncodeToString(credential)})
	if err != nil {
		return models.Grant{}, s.mapError(err)
	}
	return grantFrom(resp.Token, resp.AccountID, resp.Email, resp.Salt)
}

// Verify returns the account behind the current token. The returned grant
// carries no token.
func (s *GRPCClient) Verify(ctx context.Context) (models.Grant, error) {
	resp, err := s.client.Verify(ctx, &rpc.VerifyRequest{})
	if err != nil {
		return models.Grant{}, s.mapError(err)
	}
	return grantFrom("", resp.AccountID, resp.Email, resp.Salt)
}

func (s *GRPCClient) CreateRecord(ctx context.Context, ciphertext, nonce []byte) (*models.SealedRecord, error) {
	resp, err := s.client.CreateRecord(ctx, &rpc.CreateRecordRequest{
		Ciphertext: hex.EncodeToString(ciphertext),
		Nonce:      hex.EncodeToString(nonce),
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	created := resp.CreatedAt.AsTime()
	return &models.SealedRecord{
		ID:         resp.ID,
		Ciphertext: ciphertext,
		Nonce:      nonce,
		CreatedAt:  created,
		UpdatedAt:  created,
	}, nil
}

func (s *GRPCClient) ListRecords(ctx context.Context) ([]*models.SealedRecord, error) {
	resp, err := s.client.ListRecords(ctx, &rpc.ListRecordsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]*models.SealedRecord, 0, len(resp.Records))
	for _, r := range resp.Records {
		ct, err := hex.DecodeString(r.Ciphertext)
		if err != nil {
			return nil, fmt.Errorf("record %s: bad ciphertext encoding: %w", r.ID, err)
		}
		nonce, err := hex.DecodeString(r.Nonce)
		if err != nil {
			return nil, fmt.Errorf("record %s: bad nonce encoding: %w", r.ID, err)
		}
		out = append(out, &models.SealedRecord{
			ID:         r.ID,
			Ciphertext: ct,
			Nonce:      nonce,
			CreatedAt:  r.CreatedAt.AsTime(),
			UpdatedAt:  r.UpdatedAt.AsTime(),
		})
	}
	return out, nil
}

func (s *GRPCClient) UpdateRecord(ctx context.Context, id string, ciphertext, nonce []byte) (*models.SealedRecord, error) {
	resp, err := s.client.UpdateRecord(ctx, &rpc.UpdateRecordRequest{
		ID:         id,
		Ciphertext: hex.EncodeToString(ciphertext),
		Nonce:      hex.EncodeToString(nonce),
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.SealedRecord{ID: id, Ciphertext: ciphertext, Nonce: nonce, UpdatedAt: resp.UpdatedAt.AsTime()}, nil
}

func (s *GRPCClient) DeleteRecord(ctx context.Context, id string) error {
	if _, err := s.client.DeleteRecord(ctx, &rpc.DeleteRecordRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func grantFrom(token, accountID, email, saltHex string) (models.Grant, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return models.Grant{}, fmt.Errorf("bad salt encoding: %w", err)
	}
	return models.Grant{Token: token, AccountID: accountID, Email: email, Salt: salt}, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
