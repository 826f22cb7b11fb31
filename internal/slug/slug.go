// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
// Uniqueness of generated slugs is enforced by the stores, inside the same
// transaction as the write.
package slug

import (
	"regexp"
	"strings"
)

var (
	// invalidChars matches anything outside word characters, spaces, and hyphens.
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	// whitespaceRuns collapses consecutive whitespace into one hyphen.
	whitespaceRuns = regexp.MustCompile(`\s+`)
	// hyphenRuns collapses consecutive hyphens into one.
	hyphenRuns = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Tech Tips & Tricks 2026" → "tech-tips-tricks-2026"
//
// Generate is idempotent: applying it to its own output is a no-op.
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = invalidChars.ReplaceAllString(result, "")
	result = whitespaceRuns.ReplaceAllString(result, "-")
	result = hyphenRuns.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
