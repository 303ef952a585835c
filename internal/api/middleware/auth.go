package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/standard-backend/userapi/pkg/auth"
)

type callerKeyType string

const callerEmailKey callerKeyType = "caller_email"

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Auth requires a valid Bearer token and stores the caller's email in the request context.
func Auth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}
			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCallerEmail(r.Context(), claims.Email)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="userapi"`)
	writeError(w, http.StatusUnauthorized, "unauthorized", msg)
}

// WithCallerEmail returns a context carrying the authenticated identity.
func WithCallerEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, callerEmailKey, email)
}

// GetCallerEmail returns the authenticated identity, or "" outside Auth.
func GetCallerEmail(ctx context.Context) string {
	if v := ctx.Value(callerEmailKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
