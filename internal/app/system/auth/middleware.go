// internal/app/system/auth/middleware.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/AfrozSheikh/krushivarsa/internal/app/system/httpjson"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
)

// UserFetcher loads a fresh account for the given id on each request, so
// role and approval changes take effect immediately. Implementations return
// nil when the account does not exist.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *models.User
}

type ctxKey int

const currentUserKey ctxKey = 0

// CurrentUser returns the authenticated account from the request context.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok && u != nil
}

// WithUser returns a request whose context carries the given account.
// Exposed for tests that bypass the middleware.
func WithUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// Middleware verifies bearer tokens and injects the account into context.
type Middleware struct {
	tokens  *TokenManager
	fetcher UserFetcher
}

// NewMiddleware wires the token manager to the account fetcher.
func NewMiddleware(tokens *TokenManager, fetcher UserFetcher) *Middleware {
	return &Middleware{tokens: tokens, fetcher: fetcher}
}

// Protect rejects requests without a valid token or a live account.
// Missing, malformed, invalid, and expired tokens each get their own
// 401 message.
func (m *Middleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolve(r)
		if err != nil {
			httpjson.Fail(w, http.StatusUnauthorized, unauthorizedMessage(err))
			return
		}
		if user == nil {
			httpjson.Fail(w, http.StatusUnauthorized, "User no longer exists")
			return
		}
		next.ServeHTTP(w, WithUser(r, user))
	})
}

// Optional parses a token when one is present but lets anonymous requests
// through. Used on listing routes whose visibility filter depends on the
// caller's role.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := m.resolve(r)
		if err != nil || user == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, WithUser(r, user))
	})
}

func (m *Middleware) resolve(r *http.Request) (*models.User, error) {
	token, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}
	userID, err := m.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return m.fetcher.FetchUser(r.Context(), userID), nil
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return "Not authorized to access this route"
	case errors.Is(err, ErrTokenExpired):
		return "Token expired"
	default:
		return "Invalid token"
	}
}
