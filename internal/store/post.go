// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pressgate/internal/errs"
	"pressgate/internal/models"
	"pressgate/internal/pagination"
)

// PostStore handles all post-related database operations. Create, Update,
// and Delete each run in one transaction so the slug check, the category
// check, the row write, and the denormalized counters commit or roll back
// together.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, slug, title, description, content, excerpt, status,
	published_at, scheduled_for, author_id, category_id, tags, featured, featured_image,
	reading_time, views, likes, shares,
	meta_title, meta_description, meta_keywords, og_image, canonical_url,
	moderation_status, created_at, updated_at`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var tags, keywords []byte
	err := scanner.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Description, &p.Content, &p.Excerpt, &p.Status,
		&p.PublishedAt, &p.ScheduledFor, &p.AuthorID, &p.CategoryID, &tags,
		&p.Featured, &p.FeaturedImage,
		&p.ReadingTime, &p.Views, &p.Likes, &p.Shares,
		&p.SEO.MetaTitle, &p.SEO.MetaDescription, &keywords,
		&p.SEO.OGImage, &p.SEO.CanonicalURL,
		&p.ModerationStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Tags, err = stringsFromJSON(tags); err != nil {
		return nil, err
	}
	if p.SEO.Keywords, err = stringsFromJSON(keywords); err != nil {
		return nil, err
	}
	return &p, nil
}

// PostFilter narrows post listings. Zero values mean "no constraint".
// Search matches title, description, and content case-insensitively and is
// part of both the page query and the count query, so pagination totals
// always describe the filtered set.
type PostFilter struct {
	Status     models.PostStatus
	CategoryID *uuid.UUID
	AuthorID   string
	Search     string
}

// where builds the SQL predicate and argument list for the filter.
func (f PostFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.AuthorID != "" {
		args = append(args, f.AuthorID)
		conds = append(conds, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR content ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns a page of posts matching the filter, ordered by last update
// descending, plus the total count under the same filter.
func (s *PostStore) List(f PostFilter, p pagination.Params) ([]models.Post, int, error) {
	where, args := f.where()

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := `SELECT ` + postColumns + ` FROM posts` + where +
		fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := s.db.Query(query, append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *post)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// SlugExists reports whether another post already uses the slug.
func (s *PostStore) SlugExists(slug string, exclude *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if exclude == nil {
		err = s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	} else {
		err = s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`, slug, *exclude).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return exists, nil
}

// IncrementViews bumps the view counter atomically.
func (s *PostStore) IncrementViews(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment post views: %w", err)
	}
	return nil
}

// Create inserts a new post. Inside the transaction it re-checks slug
// uniqueness and category existence, then increments the category and
// author counters, so a failure at any step leaves nothing behind.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	tags, err := stringsJSON(p.Tags)
	if err != nil {
		return nil, err
	}
	keywords, err := stringsJSON(p.SEO.Keywords)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin create post: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, p.Slug).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check post slug: %w", err)
	}
	if exists {
		return nil, errs.Conflict("A post with this title already exists")
	}

	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, p.CategoryID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check post category: %w", err)
	}
	if !exists {
		return nil, errs.Validation("Category not found")
	}

	row := tx.QueryRow(`
		INSERT INTO posts (slug, title, description, content, excerpt, status,
			published_at, scheduled_for, author_id, category_id, tags, featured, featured_image,
			reading_time, meta_title, meta_description, meta_keywords, og_image, canonical_url,
			moderation_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING `+postColumns,
		p.Slug, p.Title, p.Description, p.Content, p.Excerpt, p.Status,
		p.PublishedAt, p.ScheduledFor, p.AuthorID, p.CategoryID, tags, p.Featured, p.FeaturedImage,
		p.ReadingTime, p.SEO.MetaTitle, p.SEO.MetaDescription, keywords, p.SEO.OGImage, p.SEO.CanonicalURL,
		p.ModerationStatus,
	)
	result, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a concurrent race on the same slug; same outcome as the pre-check.
			return nil, errs.Conflict("A post with this title already exists")
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE categories SET post_count = post_count + 1, updated_at = NOW() WHERE id = $1
	`, p.CategoryID); err != nil {
		return nil, fmt.Errorf("bump category count: %w", err)
	}

	draftDelta := 0
	if p.IsDraft() {
		draftDelta = 1
	}
	if _, err := tx.Exec(`
		UPDATE users SET post_count = post_count + 1, draft_count = draft_count + $1, updated_at = NOW()
		WHERE id = $2
	`, draftDelta, p.AuthorID); err != nil {
		return nil, fmt.Errorf("bump author count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post. prev must be the currently persisted
// version; it drives the slug re-check, category counter moves, and
// author draft-count adjustments.
func (s *PostStore) Update(p, prev *models.Post) error {
	tags, err := stringsJSON(p.Tags)
	if err != nil {
		return err
	}
	keywords, err := stringsJSON(p.SEO.Keywords)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin update post: %w", err)
	}
	defer tx.Rollback()

	if p.Slug != prev.Slug {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`, p.Slug, p.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check post slug: %w", err)
		}
		if exists {
			return errs.Conflict("A post with this title already exists")
		}
	}

	if p.CategoryID != prev.CategoryID {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, p.CategoryID).Scan(&exists); err != nil {
			return fmt.Errorf("check post category: %w", err)
		}
		if !exists {
			return errs.Validation("Category not found")
		}

		if _, err := tx.Exec(`
			UPDATE categories SET post_count = GREATEST(post_count - 1, 0), updated_at = NOW() WHERE id = $1
		`, prev.CategoryID); err != nil {
			return fmt.Errorf("move category count: %w", err)
		}
		if _, err := tx.Exec(`
			UPDATE categories SET post_count = post_count + 1, updated_at = NOW() WHERE id = $1
		`, p.CategoryID); err != nil {
			return fmt.Errorf("move category count: %w", err)
		}
	}

	if p.IsDraft() != prev.IsDraft() {
		delta := -1
		if p.IsDraft() {
			delta = 1
		}
		if _, err := tx.Exec(`
			UPDATE users SET draft_count = GREATEST(draft_count + $1, 0), updated_at = NOW() WHERE id = $2
		`, delta, p.AuthorID); err != nil {
			return fmt.Errorf("adjust draft count: %w", err)
		}
	}

	_, err = tx.Exec(`
		UPDATE posts SET
			slug = $1, title = $2, description = $3, content = $4, excerpt = $5, status = $6,
			published_at = $7, scheduled_for = $8, category_id = $9, tags = $10,
			featured = $11, featured_image = $12, reading_time = $13,
			meta_title = $14, meta_description = $15, meta_keywords = $16,
			og_image = $17, canonical_url = $18,
			updated_at = NOW()
		WHERE id = $19
	`, p.Slug, p.Title, p.Description, p.Content, p.Excerpt, p.Status,
		p.PublishedAt, p.ScheduledFor, p.CategoryID, tags,
		p.Featured, p.FeaturedImage, p.ReadingTime,
		p.SEO.MetaTitle, p.SEO.MetaDescription, keywords,
		p.SEO.OGImage, p.SEO.CanonicalURL,
		p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.Conflict("A post with this title already exists")
		}
		return fmt.Errorf("update post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update post: %w", err)
	}
	return nil
}

// Delete removes a post and decrements the category and author counters
// in the same transaction.
func (s *PostStore) Delete(p *models.Post) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete post: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM posts WHERE id = $1`, p.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE categories SET post_count = GREATEST(post_count - 1, 0), updated_at = NOW() WHERE id = $1
	`, p.CategoryID); err != nil {
		return fmt.Errorf("drop category count: %w", err)
	}

	draftDelta := 0
	if p.IsDraft() {
		draftDelta = 1
	}
	if _, err := tx.Exec(`
		UPDATE users SET post_count = GREATEST(post_count - 1, 0),
			draft_count = GREATEST(draft_count - $1, 0), updated_at = NOW()
		WHERE id = $2
	`, draftDelta, p.AuthorID); err != nil {
		return fmt.Errorf("drop author count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete post: %w", err)
	}
	return nil
}
