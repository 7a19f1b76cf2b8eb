package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hongminglow/finance-be/internal/http/respond"
	"github.com/hongminglow/finance-be/internal/service"
)

// Authenticator resolves a session token to a user ID.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (int64, error)
}

// WithUserID stores the authenticated user's ID in ctx.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user's ID placed by RequireAuth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// SessionToken extracts the session token from a Bearer header or, failing
// that, from the session cookie.
func SessionToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireAuth rejects requests without a valid, unrevoked session and puts the
// caller's user ID in the request context.
func RequireAuth(auth Authenticator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r, cookieName)
			if token == "" {
				respond.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			userID, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					respond.Error(w, http.StatusUnauthorized, err.Error())
					return
				}
				logrus.WithError(err).WithField("request_id", RequestID(r.Context())).Error("authenticate request")
				respond.Error(w, http.StatusInternalServerError, "failed to verify session")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
