package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/drkleen/backend/internal/auth"
	"github.com/drkleen/backend/internal/httpx"
	"github.com/drkleen/backend/internal/models"
)

type contextKey string

const ctxAdminKey contextKey = "admin"

// AdminAuth authenticates requests by verifying the bearer session token and
// re-reading the account row, so deactivated or deleted admins are rejected
// before the token's natural expiry. On success the admin is stored in the
// request context.
func AdminAuth(svc auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeTokenRequired,
					"Authorization header required")
				return
			}

			admin, err := svc.VerifyToken(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrInvalidToken):
					httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidToken,
						"Invalid or expired token")
				case errors.Is(err, auth.ErrUserInactive):
					httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUserInactive,
						"User is inactive")
				default:
					httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternalError,
						"Token verification failed")
				}
				return
			}

			ctx := context.WithValue(r.Context(), ctxAdminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromCtx returns the authenticated admin or nil.
func AdminFromCtx(ctx context.Context) *models.AdminUser {
	admin, _ := ctx.Value(ctxAdminKey).(*models.AdminUser)
	return admin
}

// WithAdmin returns a context carrying the given admin.
func WithAdmin(ctx context.Context, admin *models.AdminUser) context.Context {
	return context.WithValue(ctx, ctxAdminKey, admin)
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
