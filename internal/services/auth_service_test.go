package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/standard-backend/userapi/internal/models"
	appErr "github.com/standard-backend/userapi/pkg/errors"
)

func newAuthSvc() (AuthService, *mockUserRepo, *mockHasher, *mockTokens) {
	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	tokens := &mockTokens{}
	return NewAuthService(repo, hasher, tokens), repo, hasher, tokens
}

func TestLogin_Success(t *testing.T) {
	svc, repo, hasher, tokens := newAuthSvc()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "a@x.com", mock.Anything).
		Return(&models.User{ID: 1, Email: "a@x.com", Name: "A", PasswordHash: "H", Active: true}, nil)
	hasher.On("Matches", "p1", "H").Return(true, nil)
	tokens.On("Issue", "a@x.com").Return("tok", nil)

	res, err := svc.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, &LoginResult{Token: "tok", ExpiresIn: time.Hour, Email: "a@x.com", Name: "A"}, res)
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	ctx := context.Background()

	svc, repo, ghostHasher, _ := newAuthSvc()
	repo.On("GetByEmail", ctx, "ghost@x.com", mock.Anything).Return(nil, appErr.New(appErr.CodeNotFound, "user not found"))
	ghostHasher.On("Hash", mock.Anything).Return("D", nil)
	ghostHasher.On("Matches", "p1", "D").Return(false, nil)
	_, unknownErr := svc.Login(ctx, "ghost@x.com", "p1")

	svc, repo, hasher, tokens := newAuthSvc()
	repo.On("GetByEmail", ctx, "a@x.com", mock.Anything).
		Return(&models.User{ID: 1, Email: "a@x.com", PasswordHash: "H", Active: true}, nil)
	hasher.On("Matches", "wrong", "H").Return(false, nil)
	_, wrongErr := svc.Login(ctx, "a@x.com", "wrong")

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	tokens.AssertNotCalled(t, "Issue", mock.Anything)
}

func TestLogin_DisabledAccountRejectedBeforePasswordCheck(t *testing.T) {
	svc, repo, hasher, tokens := newAuthSvc()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "a@x.com", mock.Anything).
		Return(&models.User{ID: 1, Email: "a@x.com", PasswordHash: "H", Active: false}, nil)

	_, err := svc.Login(ctx, "a@x.com", "p1")
	require.ErrorIs(t, err, ErrAccountDisabled)
	hasher.AssertNotCalled(t, "Matches", mock.Anything, mock.Anything)
	tokens.AssertNotCalled(t, "Issue", mock.Anything)
}

func TestLogin_DisabledWithCorrectPassword(t *testing.T) {
	repo := &mockUserRepo{}
	tokens := &mockTokens{}
	bh := BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := bh.Hash("p1")
	require.NoError(t, err)
	svc := NewAuthService(repo, bh, tokens)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "a@x.com", mock.Anything).
		Return(&models.User{ID: 1, Email: "a@x.com", PasswordHash: hash, Active: false}, nil)

	_, err = svc.Login(ctx, "a@x.com", "p1")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestLogin_StoreFailureIsNotMaskedAsBadCredentials(t *testing.T) {
	svc, repo, _, _ := newAuthSvc()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "a@x.com", mock.Anything).
		Return(nil, appErr.Wrap(errors.New("conn reset"), appErr.CodeInternal, "get user by email failed"))

	_, err := svc.Login(ctx, "a@x.com", "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, appErr.IsCode(err, appErr.CodeInternal))
}

func TestLogin_TokenFailure(t *testing.T) {
	svc, repo, hasher, tokens := newAuthSvc()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "a@x.com", mock.Anything).
		Return(&models.User{ID: 1, Email: "a@x.com", PasswordHash: "H", Active: true}, nil)
	hasher.On("Matches", "p1", "H").Return(true, nil)
	tokens.On("Issue", "a@x.com").Return("", errors.New("no key"))

	_, err := svc.Login(ctx, "a@x.com", "p1")
	assert.True(t, appErr.IsCode(err, appErr.CodeInternal))
}

func TestLogin_UnknownEmailStillComparesPassword(t *testing.T) {
	svc, repo, hasher, tokens := newAuthSvc()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@x.com", mock.Anything).Return(nil, appErr.New(appErr.CodeNotFound, "user not found"))
	hasher.On("Hash", mock.Anything).Return("D", nil).Once()
	hasher.On("Matches", mock.Anything, "D").Return(false, nil).Twice()

	for _, pw := range []string{"p1", "p2"} {
		_, err := svc.Login(ctx, "ghost@x.com", pw)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	hasher.AssertExpectations(t)
	hasher.AssertNumberOfCalls(t, "Hash", 1)
	tokens.AssertNotCalled(t, "Issue", mock.Anything)
}

func TestLogin_UnknownEmailWhenDummyHashFails(t *testing.T) {
	svc, repo, hasher, _ := newAuthSvc()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@x.com", mock.Anything).Return(nil, appErr.New(appErr.CodeNotFound, "user not found"))
	hasher.On("Hash", mock.Anything).Return("", errors.New("entropy exhausted"))

	_, err := svc.Login(ctx, "ghost@x.com", "p1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	hasher.AssertNotCalled(t, "Matches", mock.Anything, mock.Anything)
}
