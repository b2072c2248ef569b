package httpx

import (
	"context"
	"net/http"
	"strings"

	"homeservices/internal/platform/crypto"
)

const RoleAdmin = "ADMIN"

// BlacklistRepository reports revoked access tokens by jti.
type BlacklistRepository interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func AuthMiddleware(secret string, blacklistRepo BlacklistRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}

			if blacklistRepo != nil {
				isBlacklisted, err := blacklistRepo.IsBlacklisted(r.Context(), claims.ID)
				if err != nil || isBlacklisted {
					JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
					return
				}
			}

			ctx := ContextWithUser(r.Context(), claims.Sub, claims.Role)
			ctx = contextWithTokenID(ctx, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFrom(r) == "" {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}
			if RoleFrom(r) != role {
				JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
