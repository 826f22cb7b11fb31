// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Validation behaviour is tested offline; full request flows need
// PostgreSQL and are skipped when it is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pressgate/internal/authz"
	"pressgate/internal/database"
	"pressgate/internal/middleware"
	"pressgate/internal/models"
	"pressgate/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
// Skips the test when the database is unreachable.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "pressgate")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "pressgate")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testPrincipal creates a directory user and registers its cleanup.
func testPrincipal(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()

	id := "test-" + uuid.NewString()[:8]
	u, err := store.NewUserStore(db).Create(&models.User{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: "Test User",
		Role:        role,
		Permissions: authz.DefaultPermissions(role),
		Active:      true,
	})
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", id) })
	return u
}

// testCategory creates a category and registers its cleanup.
func testCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()

	s := "test-cat-" + uuid.NewString()[:8]
	c, err := store.NewCategoryStore(db).Create(&models.Category{Name: "Cat " + s, Slug: s})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

// asPrincipal attaches the user to the request context the way the
// authentication middleware would.
func asPrincipal(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.PrincipalKey, user)
	return r.WithContext(ctx)
}

// jsonRequest builds a request with a JSON body and the principal set.
func jsonRequest(method, target, body string, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = asPrincipal(req, user)
	}
	return req
}

// decodeBody decodes the recorded response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// errorOf extracts the error message from an error envelope.
func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	return body.Error
}
