package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/metrics"
	"github.com/ai4local/ai4local/internal/ratelimit"
)

// RateLimit allows a bounded number of requests per organization. Limiter
// failures let the request through.
func RateLimit(limiter ratelimit.Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":ip:" + clientIP(r)
			if claims, ok := ClaimsFromContext(r.Context()); ok {
				key = fmt.Sprintf("%s:org:%d", scope, claims.OrgID)
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				slog.WarnContext(r.Context(), "Rate limiter unavailable", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				metrics.IncRateLimited(scope)
				respondWithError(w, http.StatusTooManyRequests, domain.ErrRateLimited.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
