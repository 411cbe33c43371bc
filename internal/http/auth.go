package httpapi

import (
	"context"
	"net/http"
	"strings"

	"chadcinema-backend-go/internal/services"
)

type contextKey string

const (
	ctxUserID   contextKey = "userID"
	ctxUsername contextKey = "username"
	ctxRole     contextKey = "role"
)

func WithAuth(tokens services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			token, claims, err := tokens.ParseToken(tokenStr)
			if err != nil || !token.Valid || claims["typ"] != "access" {
				WriteError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			userID, _ := claims["sub"].(string)
			if userID == "" {
				WriteError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			username, _ := claims["username"].(string)
			role, _ := claims["role"].(string)
			ctx := context.WithValue(r.Context(), ctxUserID, userID)
			ctx = context.WithValue(ctx, ctxUsername, username)
			ctx = context.WithValue(ctx, ctxRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentUserID(r *http.Request) string {
	if value, ok := r.Context().Value(ctxUserID).(string); ok {
		return value
	}
	return ""
}

func CurrentUsername(r *http.Request) string {
	if value, ok := r.Context().Value(ctxUsername).(string); ok {
		return value
	}
	return ""
}

func CurrentRole(r *http.Request) string {
	if value, ok := r.Context().Value(ctxRole).(string); ok {
		return value
	}
	return ""
}

// RequireAdmin gates the curation and metrics endpoints; the old backend
// left them open, which was a security defect, not a contract.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.EqualFold(CurrentRole(r), "admin") {
			WriteError(w, http.StatusForbidden, "Not allowed")
			return
		}
		next.ServeHTTP(w, r)
	})
}
