package types

import (
	"errors"
	"net/http"
	"strings"

	appErr "github.com/standard-backend/userapi/pkg/errors"
)

const internalMessage = "internal server error"

// FromAppError renders err for clients. Errors without a client-facing code
// are reduced to a generic message.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch code := appErr.CodeOf(err); code {
	case appErr.CodeUnavailable, appErr.CodeDeadline:
		return &APIError{Code: string(code), Message: strings.ToLower(http.StatusText(StatusFor(err)))}
	}
	var e *appErr.AppError
	if errors.As(err, &e) && StatusFor(err) < http.StatusInternalServerError {
		out := &APIError{Code: string(e.Code), Message: e.Message}
		if len(e.Meta) > 0 {
			out.Details = e.Meta
		}
		return out
	}
	return &APIError{Code: string(appErr.CodeInternal), Message: internalMessage}
}

// StatusFor maps an error's code to an HTTP status.
func StatusFor(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized, appErr.CodeAccountDisabled:
		return http.StatusUnauthorized
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeAlreadyExists:
		return http.StatusConflict
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	case appErr.CodeDeadline:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
