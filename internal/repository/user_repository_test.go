package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/standard-backend/userapi/internal/models"
	"github.com/standard-backend/userapi/pkg/database"
	appErr "github.com/standard-backend/userapi/pkg/errors"
)

var userColumns = []string{"id", "email", "password_hash", "name", "active", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := database.GormConfig(zap.NewNop(), gormlogger.Silent)
	cfg.DisableAutomaticPing = true
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), cfg)
	if err != nil {
		t.Fatalf("gorm.Open error: %v", err)
	}
	return NewUserRepository(db), mock
}

func userRow(id uint64, email, name string, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userColumns).AddRow(id, email, "$2a$10$hash", name, active, now, now)
}

func TestCreate_AssignsID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^INSERT INTO "users" \("email","password_hash","name","active","created_at","updated_at"\) VALUES`).
		WithArgs("a@x.com", "$2a$10$hash", "A", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	u := &models.User{Email: "a@x.com", PasswordHash: "$2a$10$hash", Name: "A", Active: true}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.EqualValues(t, 1, u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})

	err := repo.Create(context.Background(), &models.User{Email: "a@x.com", PasswordHash: "h", Name: "A", Active: true})
	require.Error(t, err)
	assert.True(t, appErr.IsCode(err, appErr.CodeAlreadyExists), "got %v", err)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^INSERT INTO "users"`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.User{Email: "a@x.com", PasswordHash: "h", Name: "A", Active: true})
	require.Error(t, err)
	assert.True(t, appErr.IsCode(err, appErr.CodeInternal))
	assert.Regexp(t, regexp.MustCompile(`create user failed: .*db down`), err.Error())
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRow(7, "a@x.com", "A", true))

	var u models.User
	require.NoError(t, repo.GetByID(context.Background(), uint64(7), &u))
	assert.EqualValues(t, 7, u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.True(t, u.Active)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	var u models.User
	err := repo.GetByID(context.Background(), uint64(99), &u)
	require.Error(t, err)
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))
	assert.Contains(t, err.Error(), "user not found with id: 99")
}

func TestGetByEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(userRow(3, "c@x.com", "C", false))

	var u models.User
	require.NoError(t, repo.GetByEmail(context.Background(), "c@x.com", &u))
	assert.False(t, u.Active)

	mock.ExpectQuery(`^SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))
	err := repo.GetByEmail(context.Background(), "nobody@x.com", &u)
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	mock.ExpectQuery(`^SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnError(errors.New("conn reset"))
	err = repo.GetByEmail(context.Background(), "c@x.com", &u)
	assert.True(t, appErr.IsCode(err, appErr.CodeInternal))
}

func TestExistsByEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT count\(\*\) FROM "users" WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	ok, err := repo.ExistsByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(`^SELECT count\(\*\) FROM "users" WHERE email = \$1`).
		WithArgs("b@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	ok, err = repo.ExistsByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdate_SavesAllColumns(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^UPDATE "users" SET .*"active"=\$4.* WHERE "id" = \$7`).
		WithArgs("a@x.com", "h", "A", false, sqlmock.AnyArg(), sqlmock.AnyArg(), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &models.User{ID: 1, Email: "a@x.com", PasswordHash: "h", Name: "A", Active: false, CreatedAt: time.Now()}
	require.NoError(t, repo.Update(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListActive(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT count\(\*\) FROM "users" WHERE active = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`^SELECT \* FROM "users" WHERE active = \$1 ORDER BY "name" DESC,id LIMIT`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(2, "b@x.com", "h", "B", true, time.Now(), time.Now()).
			AddRow(1, "a@x.com", "h", "A", true, time.Now(), time.Now()))

	users, total, err := repo.ListActive(context.Background(), Page{Number: 1, Size: 5, Sort: "name", Desc: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, users, 2)
	assert.Equal(t, "B", users[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListActive_EmptySkipsSelect(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT count\(\*\) FROM "users" WHERE active = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	users, total, err := repo.ListActive(context.Background(), Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, users)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListActive_RejectsUnknownColumn(t *testing.T) {
	repo, _ := newRepoWithMock(t)

	_, _, err := repo.ListActive(context.Background(), Page{Sort: "password_hash"})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestGetByID_DeadlineExceeded(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnError(context.DeadlineExceeded)

	var u models.User
	err := repo.GetByID(context.Background(), uint64(1), &u)
	assert.True(t, appErr.IsCode(err, appErr.CodeDeadline))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStoreError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want appErr.Code
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), appErr.CodeDeadline},
		{"bad conn", driver.ErrBadConn, appErr.CodeUnavailable},
		{"connect", &pgconn.ConnectError{}, appErr.CodeUnavailable},
		{"other", errors.New("syntax error"), appErr.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := storeError(tc.err, "list active users failed")
			assert.Equal(t, tc.want, appErr.CodeOf(err))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}
