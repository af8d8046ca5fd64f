// File: middleware/method_override.go
package middleware

import (
	"net/http"
	"strings"
)

// MethodOverride lets HTML forms reach PUT and DELETE routes by posting to
// "?_method=PUT" (or sending X-HTTP-Method-Override). It wraps the whole
// router because gin matches routes before any gin middleware runs.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			method := r.URL.Query().Get("_method")
			if method == "" {
				method = r.Header.Get("X-HTTP-Method-Override")
			}
			switch m := strings.ToUpper(method); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}
