package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout attaches a deadline to each request's context. It does not write
// the response itself: when the deadline fires, the upstream HTTP call in
// flight fails with the cancelled context and the handler maps that into
// the normalized 500 envelope. Having exactly one writer per request avoids
// the race a goroutine-plus-select timeout wrapper invites.
//
// Example usage:
//
//	handler = Timeout(60 * time.Second)(handler)
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
