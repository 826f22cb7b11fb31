// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusArchived  PostStatus = "archived"
)

// ParsePostStatus validates a status string against the full enum.
func ParsePostStatus(s string) (PostStatus, bool) {
	switch PostStatus(s) {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled, PostStatusArchived:
		return PostStatus(s), true
	}
	return "", false
}

// ValidCreateStatus reports whether a status may be supplied at creation.
// Archived is only reachable through an update.
func ValidCreateStatus(s PostStatus) bool {
	return s == PostStatusDraft || s == PostStatusPublished || s == PostStatusScheduled
}

// ModerationApproved is the moderation status assigned to new posts.
// There is no review queue; posts are auto-approved.
const ModerationApproved = "approved"

// SEO holds the search-engine metadata attached to posts and categories.
type SEO struct {
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
	OGImage         string   `json:"ogImage"`
	CanonicalURL    string   `json:"canonicalUrl"`
}

// Post represents a blog post with its derived metadata and counters.
type Post struct {
	ID               uuid.UUID  `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Content          string     `json:"content"`
	Excerpt          string     `json:"excerpt"`
	Status           PostStatus `json:"status"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
	ScheduledFor     *time.Time `json:"scheduledFor,omitempty"`
	AuthorID         string     `json:"authorId"`
	CategoryID       uuid.UUID  `json:"categoryId"`
	Tags             []string   `json:"tags"`
	Featured         bool       `json:"featured"`
	FeaturedImage    string     `json:"featuredImage"`
	ReadingTime      int        `json:"readingTime"`
	Views            int        `json:"views"`
	Likes            int        `json:"likes"`
	Shares           int        `json:"shares"`
	SEO              SEO        `json:"seo"`
	ModerationStatus string     `json:"moderationStatus"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// IsDraft returns true while the post sits in draft status. Used by the
// counter maintenance to keep per-author draft counts in sync.
func (p *Post) IsDraft() bool {
	return p.Status == PostStatusDraft
}

// excerptLen is the maximum excerpt length when derived from the description.
const excerptLen = 160

// ExcerptFrom returns the explicit excerpt when given, otherwise the first
// 160 characters of the description.
func ExcerptFrom(explicit, description string) string {
	if explicit != "" {
		return explicit
	}
	runes := []rune(description)
	if len(runes) <= excerptLen {
		return description
	}
	return string(runes[:excerptLen])
}

// wordsPerMinute is the assumed reading speed for the reading-time estimate.
const wordsPerMinute = 200

// ReadingTime estimates minutes to read for the given word count,
// rounding up.
func ReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + wordsPerMinute - 1) / wordsPerMinute
}

// DefaultSEO fills the SEO sub-object from the post fields when the client
// did not supply one.
func DefaultSEO(title, description, featuredImage string) SEO {
	return SEO{
		MetaTitle:       title,
		MetaDescription: description,
		Keywords:        []string{},
		OGImage:         featuredImage,
		CanonicalURL:    "",
	}
}
