package services

import (
	"context"
	"sync"
	"time"

	"github.com/standard-backend/userapi/internal/models"
	"github.com/standard-backend/userapi/internal/repository"
	appErr "github.com/standard-backend/userapi/pkg/errors"
	"github.com/standard-backend/userapi/pkg/logger"
	"github.com/standard-backend/userapi/pkg/utils"
	"go.uber.org/zap"
)

// TokenIssuer produces a bearer token bound to an identity.
type TokenIssuer interface {
	Issue(email string) (string, error)
	TTL() time.Duration
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type LoginResult struct {
	Token     string
	ExpiresIn time.Duration
	Email     string
	Name      string
}

type authService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) AuthService {
	return &authService{users: users, hasher: hasher, tokens: tokens}
}

// Login checks, in order: the account exists, it is active, the password matches.
// An unknown email and a wrong password fail with the same ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.L().With(zap.String("email_fp", utils.Fingerprint(email)))

	var user models.User
	if err := s.users.GetByEmail(ctx, email, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			s.compareDummy(password)
			log.Info("login rejected", zap.String("reason", "unknown_email"))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		log.Info("login rejected", zap.String("reason", "disabled"), zap.Uint64("user_id", user.ID))
		return nil, ErrAccountDisabled
	}

	ok, err := s.hasher.Matches(password, user.PasswordHash)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "verify password failed")
	}
	if !ok {
		log.Info("login rejected", zap.String("reason", "bad_password"), zap.Uint64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "issue token failed")
	}

	log.Info("login succeeded", zap.Uint64("user_id", user.ID))
	return &LoginResult{Token: token, ExpiresIn: s.tokens.TTL(), Email: user.Email, Name: user.Name}, nil
}

// compareDummy spends one hash comparison on an unknown email, so it costs
// about as long as a wrong password for an existing account.
func (s *authService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("unknown-account-placeholder")
		if err != nil {
			logger.L().Warn("dummy password hash unavailable", zap.Error(err))
			return
		}
		s.dummyHash = h
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Matches(password, s.dummyHash)
	}
}
