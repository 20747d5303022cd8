package middleware

import (
	"net/http"
	"strconv"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/go-chi/chi/v5"
)

// RequireOrg rejects requests whose URL organization differs from the
// token's. It must run after AuthMiddleware.
func RequireOrg(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID, err := strconv.ParseUint(chi.URLParam(r, param), 10, 64)
			if err != nil {
				respondWithError(w, http.StatusNotFound, "endpoint not found")
				return
			}

			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				respondWithError(w, http.StatusUnauthorized, domain.ErrTokenMissing.Error())
				return
			}
			if uint64(claims.OrgID) != orgID {
				respondWithError(w, http.StatusForbidden, domain.ErrForbidden.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
