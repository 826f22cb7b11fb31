// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"pressgate/internal/authz"
	"pressgate/internal/errs"
	"pressgate/internal/identity"
	"pressgate/internal/models"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// PrincipalKey is the context key for the authenticated user.
	PrincipalKey contextKey = "principal"
	// ClaimsKey is the context key for the verified token claims.
	ClaimsKey contextKey = "claims"
)

// UserFinder resolves a provider subject to the directory record.
type UserFinder interface {
	FindByID(id string) (*models.User, error)
}

// Authenticator verifies the bearer token on every request and loads the
// matching user record into the context. A valid token whose subject has
// no directory record is still a 401: identity alone does not grant
// access, only enrolled users do.
type Authenticator struct {
	verifier identity.Verifier
	users    UserFinder
}

// NewAuthenticator creates the authentication middleware.
func NewAuthenticator(verifier identity.Verifier, users UserFinder) *Authenticator {
	return &Authenticator{verifier: verifier, users: users}
}

// Require enforces authentication. It rejects missing or malformed
// Authorization headers, invalid tokens, unknown subjects, and inactive
// accounts, then stores the principal in the request context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			errs.Write(w, errs.Authentication("Authentication required"))
			return
		}

		claims, err := a.verifier.Verify(r.Context(), token)
		if err != nil {
			errs.Write(w, errs.Authentication("Invalid or expired token"))
			return
		}

		user, err := a.users.FindByID(claims.Subject)
		if err != nil {
			errs.Write(w, err)
			return
		}
		if user == nil {
			errs.Write(w, errs.Authentication("Invalid or expired token"))
			return
		}
		if !user.Active {
			errs.Write(w, errs.Authorization("Account is inactive"))
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalKey, user)
		ctx = context.WithValue(ctx, ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// VerifyOnly checks the bearer token without requiring a directory record.
// The sign-in endpoint uses it to enroll first-time users: their token is
// valid but no user row exists yet.
func (a *Authenticator) VerifyOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			errs.Write(w, errs.Authentication("Authentication required"))
			return
		}

		claims, err := a.verifier.Verify(r.Context(), token)
		if err != nil {
			errs.Write(w, errs.Authentication("Invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAction returns middleware that rejects principals whose role does
// not allow the action. Must be applied after Require.
func RequireAction(action authz.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := PrincipalFromCtx(r.Context())
			if user == nil || !authz.Allowed(user.Role, action) {
				errs.Write(w, errs.Authorization("Insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromCtx extracts the authenticated user from the request
// context. Returns nil if authentication has not run.
func PrincipalFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(PrincipalKey).(*models.User)
	return user
}

// ClaimsFromCtx extracts the verified token claims from the request context.
func ClaimsFromCtx(ctx context.Context) *identity.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*identity.Claims)
	return claims
}

// bearerToken pulls the token out of the Authorization header. An empty
// token after the Bearer prefix counts as missing.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
