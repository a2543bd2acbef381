package request

import (
	"net/http"
)

// BodyLimit caps request bodies at maxBytes. Readers past the limit get an
// *http.MaxBytesError; handlers decide how to report it. Mount it ahead of
// any middleware that reads the body.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
