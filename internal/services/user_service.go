package services

import (
	"context"
	"strings"

	"github.com/standard-backend/userapi/internal/models"
	"github.com/standard-backend/userapi/internal/repository"
	appErr "github.com/standard-backend/userapi/pkg/errors"
	"github.com/standard-backend/userapi/pkg/logger"
	"github.com/standard-backend/userapi/pkg/utils"
	"go.uber.org/zap"
)

// UserService owns registration, lookup and the owner-only profile mutations.
// Caller identity is always passed in explicitly; it is the email from verified token claims.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	GetByID(ctx context.Context, id uint64) (*models.User, error)
	List(ctx context.Context, page repository.Page) ([]models.User, int64, error)
	Update(ctx context.Context, id uint64, caller string, input UpdateInput) (*models.User, error)
	Delete(ctx context.Context, id uint64, caller string) error
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name   *string
	Active *bool
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher) UserService {
	return &userService{users: users, hasher: hasher}
}

var _ UserService = (*userService)(nil)

func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	log := logger.L().With(zap.String("email_fp", utils.Fingerprint(input.Email)))
	log.Info("register user called")

	// Fast path only; the unique index decides races below.
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Warn("registration rejected: email already exists")
		return nil, ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if appErr.IsCode(err, appErr.CodeInvalid) {
			return nil, err
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	u := &models.User{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Active:       true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if appErr.IsCode(err, appErr.CodeAlreadyExists) {
			log.Warn("registration lost race on unique email")
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	log.Info("user registered", zap.Uint64("user_id", u.ID))
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id uint64) (*models.User, error) {
	var u models.User
	if err := s.users.GetByID(ctx, id, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, errUserNotFound(id)
		}
		return nil, err
	}
	return &u, nil
}

func (s *userService) List(ctx context.Context, page repository.Page) ([]models.User, int64, error) {
	page = page.Normalized()
	logger.L().Debug("list active users", zap.Int("page", page.Number), zap.Int("size", page.Size), zap.String("sort", page.Sort))
	return s.users.ListActive(ctx, page)
}

func (s *userService) Update(ctx context.Context, id uint64, caller string, input UpdateInput) (*models.User, error) {
	logger.L().Info("update user", zap.Uint64("user_id", id))

	u, err := s.loadOwned(ctx, id, caller, "update")
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		u.Name = strings.TrimSpace(*input.Name)
	}
	if input.Active != nil {
		u.Active = *input.Active
		logger.L().Info("user status changed", zap.Uint64("user_id", id), zap.Bool("active", u.Active))
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete deactivates the account. The row is kept and repeated calls succeed.
func (s *userService) Delete(ctx context.Context, id uint64, caller string) error {
	logger.L().Info("deactivate user", zap.Uint64("user_id", id))

	u, err := s.loadOwned(ctx, id, caller, "delete")
	if err != nil {
		return err
	}

	u.Active = false
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	logger.L().Info("user deactivated", zap.Uint64("user_id", id))
	return nil
}

// loadOwned fetches the user and enforces that caller owns the record.
func (s *userService) loadOwned(ctx context.Context, id uint64, caller, action string) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.OwnedBy(caller) {
		logger.L().Warn("ownership check failed", zap.Uint64("user_id", id), zap.String("action", action),
			zap.String("caller_fp", utils.Fingerprint(caller)))
		return nil, errNotOwner(action)
	}
	return u, nil
}
