package middlewarex

import (
	"net/http"

	"chartitze/internal/config"
)

// AdminAuth guards administrative routes with a shared token. An empty
// configured token disables the admin surface entirely.
func AdminAuth(cfg config.Cfg) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if cfg.Sec.AdminToken == "" || token != cfg.Sec.AdminToken {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
