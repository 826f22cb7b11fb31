// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"pressgate/internal/authz"
	"pressgate/internal/errs"
	"pressgate/internal/identity"
	"pressgate/internal/middleware"
	"pressgate/internal/models"
	"pressgate/internal/store"
)

// Auth handles sign-in, token exchange, and the current-principal
// endpoint.
type Auth struct {
	users    *store.UserStore
	provider *identity.LocalProvider
	tokens   *identity.TokenService
}

// NewAuth creates a new Auth handler group. provider and tokens may be
// the same local identity stack or a split verifier deployment.
func NewAuth(users *store.UserStore, provider *identity.LocalProvider, tokens *identity.TokenService) *Auth {
	return &Auth{users: users, provider: provider, tokens: tokens}
}

// Token exchanges a provider credential (email and password) for a signed
// bearer token. It deliberately returns one generic failure for unknown
// emails and wrong passwords alike.
func (h *Auth) Token(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		errs.Write(w, err)
		return
	}

	claims, ok := h.provider.Authenticate(in.Email, in.Password)
	if !ok {
		errs.Write(w, errs.Authentication("Invalid email or password"))
		return
	}

	token, err := h.tokens.Issue(claims.Subject, claims.Email, claims.Name)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// SignIn enrolls the verified subject in the user directory on first
// sign-in and returns the directory record. Runs behind VerifyOnly: the
// token is already checked, but no user record is required yet.
func (h *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		errs.Write(w, errs.Authentication("Authentication required"))
		return
	}

	user, err := h.users.FindByID(claims.Subject)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}

	if user == nil {
		// First sign-in: enroll with the default role.
		user, err = h.users.Create(&models.User{
			ID:          claims.Subject,
			Email:       claims.Email,
			DisplayName: claims.Name,
			Role:        models.RoleAuthor,
			Permissions: authz.DefaultPermissions(models.RoleAuthor),
			Active:      true,
		})
		if err != nil {
			errs.Write(w, errs.Internal(err))
			return
		}
		slog.Info("user enrolled", "id", user.ID, "email", user.Email)
	}

	if !user.Active {
		errs.Write(w, errs.Authorization("Account is inactive"))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Me returns the authenticated principal.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.PrincipalFromCtx(r.Context())
	if user == nil {
		errs.Write(w, errs.Authentication("Authentication required"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}
