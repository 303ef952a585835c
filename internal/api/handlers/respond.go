package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/standard-backend/userapi/internal/api/middleware"
	"github.com/standard-backend/userapi/internal/api/types"
	"github.com/standard-backend/userapi/internal/api/validators"
	appErr "github.com/standard-backend/userapi/pkg/errors"
	"github.com/standard-backend/userapi/pkg/logger"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and envelope. Server-side failures are logged
// with the request id and rendered without internal detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := types.StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, types.APIResponse{
		Success: false,
		Error:   types.FromAppError(err),
		Meta:    &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.APIResponse{Success: false, Error: &types.APIError{Code: string(appErr.CodeInvalid), Message: msg}})
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, types.APIResponse{
		Success: false,
		Error: &types.APIError{
			Code:    string(appErr.CodeInvalid),
			Message: validators.Describe(err),
			Details: validators.Fields(err),
		},
	})
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeErrorStr(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeErrorStr(w, http.StatusBadRequest, "request body is required")
		default:
			writeErrorStr(w, http.StatusBadRequest, "invalid json")
		}
		return false
	}
	if err := validators.New().Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func userIDParam(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, appErr.New(appErr.CodeInvalid, "invalid user id")
	}
	return id, nil
}
