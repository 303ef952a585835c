package services

import appErr "github.com/standard-backend/userapi/pkg/errors"

// Business failures surfaced to API callers with stable messages.
var (
	ErrDuplicateEmail = appErr.New(appErr.CodeAlreadyExists, "email already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = appErr.New(appErr.CodeUnauthorized, "invalid credentials")

	ErrAccountDisabled = appErr.New(appErr.CodeAccountDisabled, "account is disabled")

	ErrPasswordTooLong = appErr.New(appErr.CodeInvalid, "password must be at most 72 bytes")
)

func errUserNotFound(id uint64) error {
	return appErr.NotFound("user not found with id: %d", id).WithMeta("user_id", id)
}

func errNotOwner(action string) error {
	return appErr.Forbidden("you are not authorized to " + action + " this user").WithMeta("action", action)
}
