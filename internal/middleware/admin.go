package middleware

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const headerAdminToken = "X-Admin-Token"

// AdminToken guards admin-only routes. The presented X-Admin-Token header is
// compared against the configured bcrypt hash. An empty hash disables the
// guarded routes entirely rather than leaving them open.
func AdminToken(tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				http.Error(w, "admin endpoints disabled", http.StatusForbidden)
				return
			}
			token := r.Header.Get(headerAdminToken)
			if token == "" {
				http.Error(w, "missing admin token", http.StatusForbidden)
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				http.Error(w, "invalid admin token", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
