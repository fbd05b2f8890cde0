package middleware

import (
	"net/http"

	"github.com/habimori/habimori/internal/config"
	"github.com/habimori/habimori/internal/ctxkeys"
)

// Config puts the app configuration in the request context so later
// middleware can read environment-dependent settings.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), cfg)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
