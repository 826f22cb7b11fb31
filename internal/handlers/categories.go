// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pressgate/internal/errs"
	"pressgate/internal/middleware"
	"pressgate/internal/models"
	"pressgate/internal/slug"
	"pressgate/internal/store"
)

// Categories groups the category CRUD handlers and their dependencies.
type Categories struct {
	categories *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore) *Categories {
	return &Categories{categories: categories}
}

// categoryInput is the JSON body for creating or updating a category.
type categoryInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Color       string      `json:"color"`
	Icon        *string     `json:"icon"`
	ParentID    *uuid.UUID  `json:"parentId"`
	Featured    bool        `json:"featured"`
	SEO         *models.SEO `json:"seo"`
}

// List returns every category. The category tree is small by nature, so
// the listing is not paginated.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Create validates the name, derives the slug, checks the parent chain,
// and persists the category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		errs.Write(w, err)
		return
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		errs.Write(w, errs.Validation("Name is required"))
		return
	}

	s := slug.Generate(in.Name)
	if s == "" {
		errs.Write(w, errs.Validation("Name must contain letters or numbers"))
		return
	}

	exists, err := h.categories.SlugExists(s, nil)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}
	if exists {
		errs.Write(w, errs.Conflict("A category with this name already exists"))
		return
	}

	if in.ParentID != nil {
		if err := h.checkParent(*in.ParentID, nil); err != nil {
			errs.Write(w, err)
			return
		}
	}

	category := &models.Category{
		Name:        in.Name,
		Slug:        s,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
		ParentID:    in.ParentID,
		Featured:    in.Featured,
	}
	if in.SEO != nil {
		category.SEO = *in.SEO
	} else {
		category.SEO = models.DefaultSEO(in.Name, in.Description, "")
	}

	created, err := h.categories.Create(category)
	if err != nil {
		errs.Write(w, err)
		return
	}

	slog.Info("category created", "id", created.ID, "slug", created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// Get fetches a single category.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.findCategory(r)
	if err != nil {
		errs.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Update applies a partial edit, re-deriving the slug when the name
// changes and re-validating the parent chain when the parent moves.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	category, err := h.findCategory(r)
	if err != nil {
		errs.Write(w, err)
		return
	}

	var in struct {
		Name        *string     `json:"name"`
		Description *string     `json:"description"`
		Color       *string     `json:"color"`
		Icon        *string     `json:"icon"`
		ParentID    *uuid.UUID  `json:"parentId"`
		Featured    *bool       `json:"featured"`
		SEO         *models.SEO `json:"seo"`
	}
	if err := decodeJSON(r, &in); err != nil {
		errs.Write(w, err)
		return
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			errs.Write(w, errs.Validation("Name is required"))
			return
		}
		if name != category.Name {
			s := slug.Generate(name)
			if s == "" {
				errs.Write(w, errs.Validation("Name must contain letters or numbers"))
				return
			}
			exists, err := h.categories.SlugExists(s, &category.ID)
			if err != nil {
				errs.Write(w, errs.Internal(err))
				return
			}
			if exists {
				errs.Write(w, errs.Conflict("A category with this name already exists"))
				return
			}
			category.Slug = s
		}
		category.Name = name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Color != nil {
		category.Color = *in.Color
	}
	if in.Icon != nil {
		category.Icon = in.Icon
	}
	if in.Featured != nil {
		category.Featured = *in.Featured
	}
	if in.SEO != nil {
		category.SEO = *in.SEO
	}
	if in.ParentID != nil {
		if err := h.checkParent(*in.ParentID, &category.ID); err != nil {
			errs.Write(w, err)
			return
		}
		category.ParentID = in.ParentID
	}

	if err := h.categories.Update(category); err != nil {
		errs.Write(w, err)
		return
	}

	updated, err := h.categories.FindByID(category.ID)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a category unless posts or child categories still
// reference it.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.PrincipalFromCtx(r.Context())

	category, err := h.findCategory(r)
	if err != nil {
		errs.Write(w, err)
		return
	}

	hasPosts, err := h.categories.HasPosts(category.ID)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}
	if hasPosts {
		errs.Write(w, errs.Validation("Cannot delete category with existing posts"))
		return
	}

	hasChildren, err := h.categories.HasChildren(category.ID)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}
	if hasChildren {
		errs.Write(w, errs.Validation("Cannot delete category with child categories"))
		return
	}

	if err := h.categories.Delete(category.ID); err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}

	slog.Info("category deleted", "id", category.ID, "slug", category.Slug, "by", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

// checkParent validates a parent assignment: the parent must exist, and
// when editing (self non-nil) its ancestry must not contain the category
// being edited.
func (h *Categories) checkParent(parentID uuid.UUID, self *uuid.UUID) error {
	exists, err := h.categories.Exists(parentID)
	if err != nil {
		return errs.Internal(err)
	}
	if !exists {
		return errs.Validation("Parent category not found")
	}

	if self != nil {
		circular, err := h.categories.InAncestry(parentID, *self)
		if err != nil {
			return errs.Internal(err)
		}
		if circular {
			return errs.Validation("Circular category relationship")
		}
	}
	return nil
}

// findCategory resolves the {id} URL parameter to a category or a typed
// error.
func (h *Categories) findCategory(r *http.Request) (*models.Category, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, errs.NotFound("Category not found")
	}
	category, err := h.categories.FindByID(id)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if category == nil {
		return nil, errs.NotFound("Category not found")
	}
	return category, nil
}
