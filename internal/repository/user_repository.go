package repository

import (
	"context"
	"errors"

	"github.com/standard-backend/userapi/internal/models"
	appErr "github.com/standard-backend/userapi/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListActive(ctx context.Context, page Page) ([]models.User, int64, error)
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db, "user"), db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "user not found")
		}
		return storeError(err, "get user by email failed")
	}
	return nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, storeError(err, "check user email failed")
	}
	return n > 0, nil
}

// ListActive returns one page of active users and the total number of active users.
func (r *userRepository) ListActive(ctx context.Context, page Page) ([]models.User, int64, error) {
	page = page.Normalized()
	if _, ok := sortableColumns[page.Sort]; !ok {
		return nil, 0, appErr.New(appErr.CodeInvalid, "invalid sort column")
	}

	active := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.User{}).Where("active = ?", true)
	}

	var total int64
	if err := active().Count(&total).Error; err != nil {
		return nil, 0, storeError(err, "count active users failed")
	}

	out := make([]models.User, 0, page.Size)
	if total == 0 {
		return out, 0, nil
	}
	err := active().
		Order(clause.OrderByColumn{Column: clause.Column{Name: page.Sort}, Desc: page.Desc}).
		Order("id").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, storeError(err, "list active users failed")
	}
	return out, total, nil
}
