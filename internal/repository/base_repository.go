package repository

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	appErr "github.com/standard-backend/userapi/pkg/errors"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// BaseRepository defines the storage operations shared by every entity.
// Rows are never physically removed; entities model deletion as state.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id any, dest *T) error
	Update(ctx context.Context, obj *T) error
}

type baseRepository[T any] struct {
	db     *gorm.DB
	entity string
}

// NewBaseRepository returns a gorm-backed BaseRepository; entity names the type in error messages.
func NewBaseRepository[T any](db *gorm.DB, entity string) BaseRepository[T] {
	return &baseRepository[T]{db: db, entity: entity}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		if isUniqueViolation(err) {
			return appErr.Wrap(err, appErr.CodeAlreadyExists, r.entity+" already exists")
		}
		return storeError(err, "create "+r.entity+" failed")
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.NotFound("%s not found with id: %v", r.entity, id)
		}
		return storeError(err, "get "+r.entity+" failed")
	}
	return nil
}

func (r *baseRepository[T]) Update(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Save(obj).Error; err != nil {
		if isUniqueViolation(err) {
			return appErr.Wrap(err, appErr.CodeAlreadyExists, r.entity+" already exists")
		}
		return storeError(err, "update "+r.entity+" failed")
	}
	return nil
}

// isUniqueViolation matches both gorm's translated error and the raw driver error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// storeError wraps a driver failure with a code the API can map: deadline and
// connection failures are reported as such, everything else as internal.
func storeError(err error, message string) error {
	var connErr *pgconn.ConnectError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return appErr.Wrap(err, appErr.CodeDeadline, message)
	case errors.As(err, &connErr), errors.Is(err, driver.ErrBadConn):
		return appErr.Wrap(err, appErr.CodeUnavailable, message)
	default:
		return appErr.Wrap(err, appErr.CodeInternal, message)
	}
}
