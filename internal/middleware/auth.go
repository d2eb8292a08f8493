// Package middleware provides HTTP middlewares for bearer-token
// authentication and request logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avoronin/noteshare/internal/models"
)

type ctxKey string

const requesterKey ctxKey = "requester"

// TokenResolver resolves a presented bearer token to an identity.
type TokenResolver interface {
	ResolveToken(ctx context.Context, bearer string) (*models.Identity, error)
}

// Auth enforces bearer-token authentication. Requests without a valid
// Authorization: Bearer header are rejected with 401; on success the
// resolved identity is stored in the request context as an
// authenticated requester.
func Auth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := resolve(r, resolver)
			if !ok {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), requesterKey, models.Authenticated(*ident))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves a bearer token when one is presented but lets
// tokenless or unresolvable requests through as anonymous. Used on read
// paths where anonymity is an answer, not an error.
func OptionalAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requester := models.Anonymous()
			if ident, ok := resolve(r, resolver); ok {
				requester = models.Authenticated(*ident)
			}
			ctx := context.WithValue(r.Context(), requesterKey, requester)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolve extracts and resolves the bearer token from r.
func resolve(r *http.Request, resolver TokenResolver) (*models.Identity, bool) {
	bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || bearer == "" {
		return nil, false
	}
	ident, err := resolver.ResolveToken(r.Context(), bearer)
	if err != nil {
		return nil, false
	}
	return ident, true
}

// RequesterFromContext returns the requester stored by Auth or
// OptionalAuth, or an anonymous requester if none was stored.
func RequesterFromContext(ctx context.Context) models.Requester {
	if req, ok := ctx.Value(requesterKey).(models.Requester); ok {
		return req
	}
	return models.Anonymous()
}

// IdentityFromContext returns the authenticated identity from the
// request context, if any.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	return RequesterFromContext(ctx).Identity()
}
