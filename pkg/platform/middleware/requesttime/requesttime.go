// Package requesttime provides middleware for request-scoped time.
// All operations within a single HTTP request use the same "now" timestamp, so a post's
// createdAt and the log line describing its creation agree.
package requesttime

import (
	"net/http"
	"time"

	"postboard/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and stores it in
// the context. Handlers and services read it back with requestcontext.Now.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
