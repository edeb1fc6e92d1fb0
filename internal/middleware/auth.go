package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"swms-backend/internal/apperrors"
	"swms-backend/internal/auth"
	"swms-backend/pkg/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

// Authenticate validates the bearer token and adds the resolved claims
// to the request context. Requests without a credential fail closed.
func Authenticate(tokens *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.Error(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.Error(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				log.Printf("auth: token rejected for %s %s: %v", r.Method, r.URL.Path, err)
				switch {
				case errors.Is(err, apperrors.ErrTokenExpired):
					utils.Error(w, http.StatusUnauthorized, "Token expired")
				case errors.Is(err, apperrors.ErrInvalidSignature):
					utils.Error(w, http.StatusUnauthorized, "Invalid token")
				default:
					utils.Error(w, http.StatusUnauthorized, "Invalid token format")
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole permits the request only if the authenticated role is in
// the allowed set. Must run after Authenticate: a missing identity is
// reported as "not authenticated" (401), a wrong role as 403 naming
// the roles the route requires.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(UserContextKey).(auth.Claims)
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "User not authenticated")
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Printf("auth: role %q denied on %s %s (requires %s)",
				claims.Role, r.Method, r.URL.Path, strings.Join(roles, " or "))
			utils.Error(w, http.StatusForbidden,
				"User role '"+claims.Role+"' is not authorized to access this route (requires "+strings.Join(roles, " or ")+")")
		})
	}
}

// GetUserFromContext extracts the authenticated claims from the
// request context.
func GetUserFromContext(r *http.Request) (auth.Claims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(auth.Claims)
	return claims, ok
}
