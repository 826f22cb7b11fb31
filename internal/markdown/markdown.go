// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts Markdown source text into HTML using goldmark
// and derives plain-text views of it. The word count feeds the
// reading-time estimate so that Markdown syntax does not inflate it.
package markdown

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM, // GitHub-Flavored Markdown: tables, strikethrough, autolinks, task lists
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// tagPattern strips HTML elements left after rendering.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// PlainText renders the Markdown and strips all markup, returning the
// readable text with whitespace collapsed. Falls back to the raw source
// if rendering fails, so callers always get something countable.
func PlainText(source string) string {
	rendered, err := ToHTML(source)
	if err != nil {
		rendered = source
	}
	text := tagPattern.ReplaceAllString(rendered, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// WordCount returns the number of words in the readable text of the
// Markdown source.
func WordCount(source string) int {
	plain := PlainText(source)
	if plain == "" {
		return 0
	}
	return len(strings.Fields(plain))
}
