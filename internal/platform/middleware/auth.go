package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "postboard/pkg/domain-errors"
	"postboard/pkg/platform/httputil"
	"postboard/pkg/requestcontext"
)

const (
	missingTokenMessage = "Access token required"
	invalidTokenMessage = "Invalid or expired token"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	UserID   int64
	Username string
	JTI      string
}

// RequireAuth rejects requests without a valid bearer token. A missing credential is
// 401; a credential that fails verification (signature, format, expiry) is 403. On
// success the caller identity from the claims is attached to the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, missingTokenMessage))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "forbidden access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, invalidTokenMessage))
				return
			}

			logger.DebugContext(ctx, "request authenticated",
				"request_id", requestID,
				"user_id", claims.UserID,
				"jti", claims.JTI,
			)
			ctx = requestcontext.WithIdentity(ctx, requestcontext.Identity{
				ID:       claims.UserID,
				Username: claims.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credential from an Authorization header. The scheme
// name is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, after, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(after)
	return token, token != ""
}
