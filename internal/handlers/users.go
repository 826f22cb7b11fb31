// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"pressgate/internal/authz"
	"pressgate/internal/errs"
	"pressgate/internal/identity"
	"pressgate/internal/models"
	"pressgate/internal/pagination"
	"pressgate/internal/store"
)

const minPasswordLen = 8

// Users groups the user directory handlers. Creating a user also
// provisions an account at the identity provider, so the new user can
// sign in immediately.
type Users struct {
	users    *store.UserStore
	provider identity.Provisioner
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore, provider identity.Provisioner) *Users {
	return &Users{users: users, provider: provider}
}

// List returns a paginated page of directory users.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.Parse(r.URL.Query())

	items, total, err := h.users.List(params)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}

	writeList(w, items, pagination.NewMeta(params, total))
}

// Create provisions an identity account and the matching directory
// record. The role defaults to author when absent.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
		Role        string `json:"role"`
	}
	if err := decodeJSON(r, &in); err != nil {
		errs.Write(w, err)
		return
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		errs.Write(w, errs.Validation("A valid email is required"))
		return
	case utf8.RuneCountInString(in.Password) < minPasswordLen:
		errs.Write(w, errs.Validation("Password must be at least 8 characters"))
		return
	}

	role := models.RoleAuthor
	if in.Role != "" {
		parsed, ok := models.ParseRole(in.Role)
		if !ok {
			errs.Write(w, errs.Validation("Invalid role"))
			return
		}
		role = parsed
	}

	exists, err := h.users.EmailExists(in.Email)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}
	if exists {
		errs.Write(w, errs.Conflict("A user with this email already exists"))
		return
	}

	subject, err := h.provider.CreateAccount(r.Context(), in.Email, in.Password, in.DisplayName)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}

	created, err := h.users.Create(&models.User{
		ID:          subject,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Role:        role,
		Permissions: authz.DefaultPermissions(role),
		Active:      true,
	})
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}

	slog.Info("user created", "id", created.ID, "email", created.Email, "role", created.Role)
	writeJSON(w, http.StatusCreated, created)
}

// Update changes a user's display name, role, or active flag. Changing
// the role re-derives the permission set.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.users.FindByID(id)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}
	if user == nil {
		errs.Write(w, errs.NotFound("User not found"))
		return
	}

	var in struct {
		DisplayName *string `json:"displayName"`
		Role        *string `json:"role"`
		Active      *bool   `json:"active"`
	}
	if err := decodeJSON(r, &in); err != nil {
		errs.Write(w, err)
		return
	}

	if in.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Role != nil {
		role, ok := models.ParseRole(*in.Role)
		if !ok {
			errs.Write(w, errs.Validation("Invalid role"))
			return
		}
		if role != user.Role {
			user.Role = role
			user.Permissions = authz.DefaultPermissions(role)
		}
	}
	if in.Active != nil {
		user.Active = *in.Active
	}

	if err := h.users.Update(user); err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}

	updated, err := h.users.FindByID(id)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
