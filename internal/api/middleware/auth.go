package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/judgecore/internal/api/apierr"
	"github.com/mcoot/judgecore/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// Authenticator resolves an access token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Auth creates authentication middleware that rejects requests without a valid token
func Auth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			user, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
		})
	}
}

// OptionalAuth attaches the user if a valid token is present. Requests with a
// missing or invalid token continue as anonymous.
func OptionalAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := extractToken(r); token != "" {
				if user, err := authenticator.Authenticate(r.Context(), token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the token query parameter (browsers cannot set headers on WebSocket upgrades)
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return r.URL.Query().Get("token")
}

// GetUser returns the authenticated user from the request context
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) *model.User {
	user := GetUser(ctx)
	if user == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}

// GetRequester returns the policy identity for the request, anonymous if unauthenticated
func GetRequester(ctx context.Context) model.Requester {
	if user := GetUser(ctx); user != nil {
		return user.Requester()
	}
	return model.Anonymous()
}
