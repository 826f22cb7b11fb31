// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the PressGate API.
// Handlers are grouped by concern (auth, posts, categories, users) and
// receive their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"pressgate/internal/errs"
	"pressgate/internal/pagination"
)

// decodeJSON parses the request body into v, turning any decode failure
// into a client-facing validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Validation("Invalid request body")
	}
	return nil
}

// listEnvelope is the response shape for every paginated listing.
type listEnvelope struct {
	Items      any             `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

// writeList wraps items and pagination metadata in the list envelope.
// A nil slice still renders as [] so clients never see null items.
func writeList[T any](w http.ResponseWriter, items []T, meta pagination.Meta) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, listEnvelope{Items: items, Pagination: meta})
}
