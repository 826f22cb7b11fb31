// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pressgate/internal/models"
)

// CategoryStore manages categories in the database. The parent chain
// checks here back the integrity rules enforced by the handlers.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, color, icon, parent_id, featured, post_count,
	meta_title, meta_description, meta_keywords, og_image, canonical_url, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	var keywords []byte
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.Icon,
		&c.ParentID, &c.Featured, &c.PostCount,
		&c.SEO.MetaTitle, &c.SEO.MetaDescription, &keywords,
		&c.SEO.OGImage, &c.SEO.CanonicalURL,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.SEO.Keywords, err = stringsFromJSON(keywords); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// SlugExists reports whether another category already uses the slug.
// Pass exclude to ignore the category being updated.
func (s *CategoryStore) SlugExists(slug string, exclude *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if exclude == nil {
		err = s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1)`, slug).Scan(&exists)
	} else {
		err = s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`, slug, *exclude).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return exists, nil
}

// Exists reports whether a category with the given ID is present.
func (s *CategoryStore) Exists(id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	keywords, err := stringsJSON(c.SEO.Keywords)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, color, icon, parent_id, featured,
			meta_title, meta_description, meta_keywords, og_image, canonical_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Color, c.Icon, c.ParentID, c.Featured,
		c.SEO.MetaTitle, c.SEO.MetaDescription, keywords, c.SEO.OGImage, c.SEO.CanonicalURL,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	keywords, err := stringsJSON(c.SEO.Keywords)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, color = $4, icon = $5,
			parent_id = $6, featured = $7,
			meta_title = $8, meta_description = $9, meta_keywords = $10,
			og_image = $11, canonical_url = $12,
			updated_at = NOW()
		WHERE id = $13
	`, c.Name, c.Slug, c.Description, c.Color, c.Icon, c.ParentID, c.Featured,
		c.SEO.MetaTitle, c.SEO.MetaDescription, keywords, c.SEO.OGImage, c.SEO.CanonicalURL,
		c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by ID. Callers must run the referential checks
// (HasPosts, HasChildren) first; this is a single-row remove, not a cascade.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// HasPosts reports whether any post references the category.
func (s *CategoryStore) HasPosts(id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM posts WHERE category_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category posts: %w", err)
	}
	return exists, nil
}

// HasChildren reports whether any category lists this one as parent.
func (s *CategoryStore) HasChildren(id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE parent_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category children: %w", err)
	}
	return exists, nil
}

// maxTreeDepth bounds the ancestor walk so a corrupted tree cannot loop forever.
const maxTreeDepth = 64

// InAncestry walks the parent chain starting at start and reports whether
// target appears in it (start included). Assigning a parent whose ancestry
// contains the category being edited would create a cycle.
func (s *CategoryStore) InAncestry(start, target uuid.UUID) (bool, error) {
	current := start
	for depth := 0; depth < maxTreeDepth; depth++ {
		if current == target {
			return true, nil
		}

		var parent *uuid.UUID
		err := s.db.QueryRow(`SELECT parent_id FROM categories WHERE id = $1`, current).Scan(&parent)
		if err == sql.ErrNoRows || (err == nil && parent == nil) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("walk category ancestry: %w", err)
		}
		current = *parent
	}
	return false, fmt.Errorf("category ancestry deeper than %d levels", maxTreeDepth)
}
