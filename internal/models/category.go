// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a hierarchical content category. The parent
// reference is self-referential and forms a tree; integrity checks on
// write keep the tree acyclic.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	Icon        *string    `json:"icon,omitempty"`
	ParentID    *uuid.UUID `json:"parentId"`
	Featured    bool       `json:"featured"`
	PostCount   int        `json:"postCount"`
	SEO         SEO        `json:"seo"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
