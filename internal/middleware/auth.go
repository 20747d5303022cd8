// internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/ai4local/ai4local/internal/audit"
	"github.com/ai4local/ai4local/internal/auth"
	"github.com/ai4local/ai4local/internal/domain"
)

type claimsContextKey struct{}

// AuthMiddleware validates the bearer token and stores its claims and the
// audit actor in the request context.
func AuthMiddleware(tokenManager *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, err.Error())
				return
			}

			claims, err := tokenManager.Validate(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					respondWithError(w, http.StatusUnauthorized, domain.ErrTokenExpired.Error())
					return
				}
				respondWithError(w, http.StatusUnauthorized, domain.ErrInvalidToken.Error())
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = audit.WithActor(ctx, audit.Actor{
				UserID:   claims.UserID,
				OrgID:    claims.OrgID,
				ClientIP: clientIP(r),
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>"
// header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", domain.ErrTokenMissing
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.ErrInvalidTokenFormat
	}
	return parts[1], nil
}

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns the claims stored by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*auth.Claims)
	return claims, ok && claims != nil
}

// clientIP drops the port of RemoteAddr. RealIP may already have replaced
// it with a bare forwarded address.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
