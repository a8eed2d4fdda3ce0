package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/snipurl/snipurl/internal/auth"
	"github.com/snipurl/snipurl/internal/model"
)

// ErrUnauthenticated is returned by a UserResolver that rejects the token.
// Any other error is treated as an internal failure.
var ErrUnauthenticated = errors.New("unauthenticated")

// UserResolver maps a bearer token to the user it was issued for.
type UserResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (*model.User, error)
}

// UserResolverFunc adapts a function to UserResolver.
type UserResolverFunc func(ctx context.Context, token string) (*model.User, error)

// ResolveCurrentUser calls f.
func (f UserResolverFunc) ResolveCurrentUser(ctx context.Context, token string) (*model.User, error) {
	return f(ctx, token)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Resolver UserResolver
	// IsUnauthorized reports whether a resolver error means the token was
	// rejected. Defaults to errors.Is(err, ErrUnauthenticated).
	IsUnauthorized func(error) bool
}

// Auth returns a middleware that requires "Authorization: Bearer <token>".
// The resolved user is stored in the request context; the token itself is
// never logged.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	isUnauthorized := cfg.IsUnauthorized
	if isUnauthorized == nil {
		isUnauthorized = func(err error) bool { return errors.Is(err, ErrUnauthenticated) }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, reason := extractBearerToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, reason)
				writeAuthError(w)
				return
			}

			user, err := cfg.Resolver.ResolveCurrentUser(r.Context(), token)
			if err != nil {
				if isUnauthorized(err) {
					logAuthFailure(cfg.Logger, r, "invalid_token")
					writeAuthError(w)
					return
				}
				cfg.Logger.Error("user resolution failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
				return
			}

			cfg.Logger.Debug("authentication successful",
				slog.String("user_id", user.ID),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken returns the bearer token, or "" and a log reason.
// The scheme is matched case-insensitively.
func extractBearerToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "missing_token"
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "invalid_scheme"
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", "missing_token"
	}
	return token, ""
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Could not validate credentials")
}
