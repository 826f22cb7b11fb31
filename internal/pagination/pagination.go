// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagination translates page/limit query parameters into bounded
// offsets and builds the navigation envelope returned by list endpoints.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the page size when the client does not send one.
	DefaultLimit = 10
	// MaxLimit caps the page size a client may request.
	MaxLimit = 50
)

// Params is a sanitized page/limit pair. Construct via Parse so the
// bounds always hold.
type Params struct {
	Page  int
	Limit int
}

// Parse reads page and limit from query values, applying defaults and
// clamping out-of-range values instead of rejecting them.
func Parse(q url.Values) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = v
		if p.Limit > MaxLimit {
			p.Limit = MaxLimit
		}
	}
	return p
}

// Offset returns the query offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the navigation envelope carried alongside list results.
type Meta struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// NewMeta builds the envelope for a total row count under the given params.
func NewMeta(p Params, total int) Meta {
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   total,
		Pages:   pages,
		HasNext: p.Page < pages,
		HasPrev: p.Page > 1,
	}
}
