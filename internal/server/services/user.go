// Package services contains server-side business logic: account
// registration and login (UserService) and owner-scoped storage of sealed
// records (RecordService).
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/server/auth"
	"github.com/dmitrijs2005/gophvault/internal/server/config"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/repomanager"
)

// AuthResult is what a successful Register or Login hands back to the caller.
type AuthResult struct {
	Token string
	User  *models.User
}

// UserService provides authentication-related operations:
// - Register: create an account with a fresh KDF salt
// - Login: check the credential and mint a token
// - Verify: resolve the account behind a valid token
type UserService struct {
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int

	dummyMu   sync.Mutex
	dummyHash []byte
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
	}
}

// Register creates an account for email. credential must be the client's
// 32-byte authentication digest; only its bcrypt hash is stored.
func (s *UserService) Register(ctx context.Context, email string, credential []byte) (*AuthResult, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email must contain @", common.ErrorValidation)
	}
	if len(credential) != cryptox.DigestSize {
		return nil, fmt.Errorf("%w: credential must be %d bytes", common.ErrorValidation, cryptox.DigestSize)
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return nil, common.ErrorInternal
	}
	hash, err := auth.HashCredential(credential, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := s.repomanager.Users().Create(ctx, &models.User{Email: email, Salt: salt, CredentialHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// Login checks credential against the stored hash. Unknown emails and wrong
// credentials are indistinguishable: both are common.ErrorUnauthorized and
// both pay for one bcrypt comparison.
func (s *UserService) Login(ctx context.Context, email string, credential []byte) (*AuthResult, error) {
	user, err := s.repomanager.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			hash, herr := s.fallbackHash()
			if herr != nil {
				return nil, fmt.Errorf("%w: %v", common.ErrorInternal, herr)
			}
			_, _ = auth.CheckCredential(hash, credential)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	ok, err := auth.CheckCredential(user.CredentialHash, credential)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(user)
}

// Verify returns the account a token was issued to. A token for a
// vanished account is common.ErrorUnauthorized.
func (s *UserService) Verify(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, User: user}, nil
}

// fallbackHash is compared against for unknown emails. It is built on
// first use and kept only once hashing succeeds.
func (s *UserService) fallbackHash() ([]byte, error) {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyHash != nil {
		return s.dummyHash, nil
	}

	seed, err := common.GenerateRandByteArray(cryptox.DigestSize)
	if err != nil {
		return nil, err
	}
	h, err := auth.HashCredential(seed, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	s.dummyHash = h
	return h, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
