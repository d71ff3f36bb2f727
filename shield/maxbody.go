package shield

import (
	"net/http"
	"strings"
)

// MaxJSONBody returns middleware that limits the request body size for
// JSON POST/PUT requests. Other content types are passed through: the
// capture API only ever accepts small JSON bodies.
func MaxJSONBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ct := r.Header.Get("Content-Type")
			if strings.HasPrefix(ct, "application/json") {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
