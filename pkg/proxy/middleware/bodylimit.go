package middleware

import "net/http"

// BodyLimit caps the number of bytes a handler may read from the request
// body. Reads past the limit fail with *http.MaxBytesError, which the JSON
// body parser maps to a 400 before any upstream call is made.
//
// Example usage:
//
//	handler = BodyLimit(cfg.Server.MaxBodyBytes)(handler)
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
