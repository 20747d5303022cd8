package graphql

import (
	"net/http"
	"strings"

	"github.com/ai4local/ai4local/internal/auth"
	"github.com/ai4local/ai4local/internal/middleware"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

// NewHandler serves the schema on GET and POST behind bearer token
// authentication. With graphiql set, browsers asking for HTML get the
// GraphiQL page without a token; queries sent from it still need one.
func NewHandler(schema *graphql.Schema, tokenManager *auth.TokenManager, graphiql bool) http.Handler {
	h := handler.New(&handler.Config{
		Schema:   schema,
		Pretty:   true,
		GraphiQL: graphiql,
	})
	authed := middleware.AuthMiddleware(tokenManager)(h)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if graphiql && r.Method == http.MethodGet && wantsHTML(r) {
			h.ServeHTTP(w, r)
			return
		}
		authed.ServeHTTP(w, r)
	})
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
