package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestBackoffNextDelay(t *testing.T) {
	b := backoff{maxRetries: 5, delay: 500 * time.Millisecond, maxDelay: 5 * time.Second}

	assert.Equal(t, 500*time.Millisecond, b.nextDelay(0))
	assert.Equal(t, time.Second, b.nextDelay(1))
	assert.Equal(t, 4*time.Second, b.nextDelay(3))
	assert.Equal(t, 5*time.Second, b.nextDelay(4))
	assert.Equal(t, 5*time.Second, b.nextDelay(10))
}

func TestZapGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := zapGormLogger{zap: zap.New(core), level: gormlogger.Warn}

	sql := func() (string, int64) { return `SELECT * FROM "users"`, 1 }

	l.Trace(context.Background(), time.Now(), sql, nil)
	l.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	l.Trace(context.Background(), time.Now(), sql, errors.New("syntax error"))

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "gorm query", logs.All()[0].Message)
	assert.Equal(t, "gorm query", logs.All()[1].Message)
	assert.Equal(t, "gorm query error", logs.All()[2].Message)

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), sql, errors.New("ignored"))
	assert.Equal(t, 3, logs.Len())
}

func TestMigrateCreatesPartialIndex(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               gormlogger.Discard,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	err = addActiveUsersNameIndex(db)
	require.Error(t, err, "no expectation registered yet")

	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_users_active_name")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, addActiveUsersNameIndex(db))
	require.NoError(t, mock.ExpectationsWereMet())
}
