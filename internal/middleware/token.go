package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// APIToken returns a middleware that guards routes with a single shared
// secret supplied in the X-API-Token header. Comparison is constant-time.
func APIToken(token string) func(http.Handler) http.Handler {
	secret := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get("X-API-Token"))
			if subtle.ConstantTimeCompare(got, secret) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
