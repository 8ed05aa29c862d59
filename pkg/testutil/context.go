package testutil

import (
	"net/http"
	"time"

	"postboard/pkg/requestcontext"
)

// WithIdentity attaches an authenticated caller to the request context.
// This simulates what the token gate does for authenticated requests.
func WithIdentity(req *http.Request, id int64, username string) *http.Request {
	ctx := requestcontext.WithIdentity(req.Context(), requestcontext.Identity{ID: id, Username: username})
	return req.WithContext(ctx)
}

// WithRequestTime pins the request-scoped clock.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
