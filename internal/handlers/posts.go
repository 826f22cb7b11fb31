// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pressgate/internal/errs"
	"pressgate/internal/markdown"
	"pressgate/internal/middleware"
	"pressgate/internal/models"
	"pressgate/internal/pagination"
	"pressgate/internal/slug"
	"pressgate/internal/store"
)

// Posts groups the post CRUD handlers and their dependencies.
type Posts struct {
	posts      *store.PostStore
	categories *store.CategoryStore
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, categories *store.CategoryStore) *Posts {
	return &Posts{posts: posts, categories: categories}
}

// postInput is the JSON body for creating a post. Update reuses it with
// pointer fields so absent keys leave the stored value alone.
type postInput struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Content       string      `json:"content"`
	Excerpt       string      `json:"excerpt"`
	Status        string      `json:"status"`
	ScheduledFor  string      `json:"scheduledFor"`
	CategoryID    uuid.UUID   `json:"categoryId"`
	Tags          []string    `json:"tags"`
	Featured      bool        `json:"featured"`
	FeaturedImage string      `json:"featuredImage"`
	SEO           *models.SEO `json:"seo"`
}

// List returns a filtered, paginated page of posts. Authors only ever see
// their own posts; the author filter is forced server-side for them.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.PrincipalFromCtx(r.Context())
	q := r.URL.Query()

	filter := store.PostFilter{Search: strings.TrimSpace(q.Get("search"))}

	if raw := q.Get("status"); raw != "" {
		status, ok := models.ParsePostStatus(raw)
		if !ok {
			errs.Write(w, errs.Validation("Invalid status filter"))
			return
		}
		filter.Status = status
	}
	if raw := q.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errs.Write(w, errs.Validation("Invalid category filter"))
			return
		}
		filter.CategoryID = &id
	}
	if user.Role == models.RoleAuthor {
		filter.AuthorID = user.ID
	} else if author := q.Get("author"); author != "" {
		filter.AuthorID = author
	}

	params := pagination.Parse(q)
	items, total, err := h.posts.List(filter, params)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}

	writeList(w, items, pagination.NewMeta(params, total))
}

// Create validates the input, derives the computed fields, and persists
// the post together with its counter updates.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.PrincipalFromCtx(r.Context())

	var in postInput
	if err := decodeJSON(r, &in); err != nil {
		errs.Write(w, err)
		return
	}

	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		errs.Write(w, errs.Validation("Title is required"))
		return
	case strings.TrimSpace(in.Description) == "":
		errs.Write(w, errs.Validation("Description is required"))
		return
	case strings.TrimSpace(in.Content) == "":
		errs.Write(w, errs.Validation("Content is required"))
		return
	case in.CategoryID == uuid.Nil:
		errs.Write(w, errs.Validation("Category is required"))
		return
	}

	status := models.PostStatusDraft
	if in.Status != "" {
		parsed, ok := models.ParsePostStatus(in.Status)
		if !ok || !models.ValidCreateStatus(parsed) {
			errs.Write(w, errs.Validation("Invalid status"))
			return
		}
		status = parsed
	}

	s := slug.Generate(in.Title)
	if s == "" {
		errs.Write(w, errs.Validation("Title must contain letters or numbers"))
		return
	}

	post := &models.Post{
		Slug:             s,
		Title:            in.Title,
		Description:      in.Description,
		Content:          in.Content,
		Excerpt:          models.ExcerptFrom(in.Excerpt, in.Description),
		Status:           status,
		AuthorID:         user.ID,
		CategoryID:       in.CategoryID,
		Tags:             in.Tags,
		Featured:         in.Featured,
		FeaturedImage:    in.FeaturedImage,
		ReadingTime:      models.ReadingTime(markdown.WordCount(in.Content)),
		ModerationStatus: models.ModerationApproved,
	}

	if in.SEO != nil {
		post.SEO = *in.SEO
	} else {
		post.SEO = models.DefaultSEO(in.Title, in.Description, in.FeaturedImage)
	}

	switch status {
	case models.PostStatusPublished:
		now := time.Now()
		post.PublishedAt = &now
	case models.PostStatusScheduled:
		at, err := time.Parse(time.RFC3339, in.ScheduledFor)
		if err != nil {
			errs.Write(w, errs.Validation("Invalid scheduledFor timestamp"))
			return
		}
		post.ScheduledFor = &at
	}

	created, err := h.posts.Create(post)
	if err != nil {
		errs.Write(w, err)
		return
	}

	slog.Info("post created", "id", created.ID, "slug", created.Slug, "author", user.ID)
	writeJSON(w, http.StatusCreated, created)
}

// Get fetches a single post and bumps its view counter.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.findPost(r)
	if err != nil {
		errs.Write(w, err)
		return
	}

	if err := h.posts.IncrementViews(post.ID); err != nil {
		slog.Error("bump post views", "id", post.ID, "error", err)
	} else {
		post.Views++
	}

	writeJSON(w, http.StatusOK, post)
}

// Update applies a partial edit. Authors may only touch their own posts;
// editors and admins may touch any. The slug is recomputed only when the
// title changes so unrelated edits never break published links.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.PrincipalFromCtx(r.Context())

	post, err := h.findPost(r)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if user.Role == models.RoleAuthor && post.AuthorID != user.ID {
		errs.Write(w, errs.Authorization("You can only modify your own posts"))
		return
	}

	var in struct {
		Title         *string     `json:"title"`
		Description   *string     `json:"description"`
		Content       *string     `json:"content"`
		Excerpt       *string     `json:"excerpt"`
		Status        *string     `json:"status"`
		ScheduledFor  *string     `json:"scheduledFor"`
		CategoryID    *uuid.UUID  `json:"categoryId"`
		Tags          *[]string   `json:"tags"`
		Featured      *bool       `json:"featured"`
		FeaturedImage *string     `json:"featuredImage"`
		SEO           *models.SEO `json:"seo"`
	}
	if err := decodeJSON(r, &in); err != nil {
		errs.Write(w, err)
		return
	}

	prev := *post

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			errs.Write(w, errs.Validation("Title is required"))
			return
		}
		if title != post.Title {
			s := slug.Generate(title)
			if s == "" {
				errs.Write(w, errs.Validation("Title must contain letters or numbers"))
				return
			}
			post.Slug = s
		}
		post.Title = title
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			errs.Write(w, errs.Validation("Description is required"))
			return
		}
		post.Description = *in.Description
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			errs.Write(w, errs.Validation("Content is required"))
			return
		}
		post.Content = *in.Content
		post.ReadingTime = models.ReadingTime(markdown.WordCount(post.Content))
	}
	if in.Excerpt != nil {
		post.Excerpt = models.ExcerptFrom(*in.Excerpt, post.Description)
	}
	if in.CategoryID != nil {
		if *in.CategoryID == uuid.Nil {
			errs.Write(w, errs.Validation("Category is required"))
			return
		}
		post.CategoryID = *in.CategoryID
	}
	if in.Tags != nil {
		post.Tags = *in.Tags
	}
	if in.Featured != nil {
		post.Featured = *in.Featured
	}
	if in.FeaturedImage != nil {
		post.FeaturedImage = *in.FeaturedImage
	}
	if in.SEO != nil {
		post.SEO = *in.SEO
	}

	if in.Status != nil {
		status, ok := models.ParsePostStatus(*in.Status)
		if !ok {
			errs.Write(w, errs.Validation("Invalid status"))
			return
		}
		post.Status = status
	}

	// Entering published stamps the publish timestamp once; it is never
	// cleared on the way out so re-publishing keeps the original date.
	if post.Status == models.PostStatusPublished && prev.Status != models.PostStatusPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if post.Status == models.PostStatusScheduled {
		if in.ScheduledFor != nil {
			at, err := time.Parse(time.RFC3339, *in.ScheduledFor)
			if err != nil {
				errs.Write(w, errs.Validation("Invalid scheduledFor timestamp"))
				return
			}
			post.ScheduledFor = &at
		}
		if post.ScheduledFor == nil {
			errs.Write(w, errs.Validation("Scheduled posts require a scheduledFor timestamp"))
			return
		}
	} else {
		post.ScheduledFor = nil
	}

	if err := h.posts.Update(post, &prev); err != nil {
		errs.Write(w, err)
		return
	}

	updated, err := h.posts.FindByID(post.ID)
	if err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a post and releases its counters. Same ownership rule
// as Update: authors may only delete their own posts.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.PrincipalFromCtx(r.Context())

	post, err := h.findPost(r)
	if err != nil {
		errs.Write(w, err)
		return
	}
	if user.Role == models.RoleAuthor && post.AuthorID != user.ID {
		errs.Write(w, errs.Authorization("You can only modify your own posts"))
		return
	}

	if err := h.posts.Delete(post); err != nil {
		errs.Write(w, errs.Internal(err))
		return
	}

	slog.Info("post deleted", "id", post.ID, "slug", post.Slug, "by", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

// findPost resolves the {id} URL parameter to a post or a typed error.
func (h *Posts) findPost(r *http.Request) (*models.Post, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, errs.NotFound("Post not found")
	}
	post, err := h.posts.FindByID(id)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if post == nil {
		return nil, errs.NotFound("Post not found")
	}
	return post, nil
}
