package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pressgate/internal/authz"
	"pressgate/internal/identity"
	"pressgate/internal/models"
)

// fakeVerifier accepts exactly one token and returns fixed claims for it.
type fakeVerifier struct {
	token  string
	claims identity.Claims
}

func (v *fakeVerifier) Verify(_ context.Context, token string) (*identity.Claims, error) {
	if token != v.token {
		return nil, errors.New("bad token")
	}
	c := v.claims
	return &c, nil
}

// fakeUsers is an in-memory UserFinder.
type fakeUsers struct {
	users map[string]*models.User
	err   error
}

func (f *fakeUsers) FindByID(id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func testAuthenticator(user *models.User) *Authenticator {
	verifier := &fakeVerifier{
		token:  "good-token",
		claims: identity.Claims{Subject: "subject-1", Email: "a@example.com", Name: "A"},
	}
	users := &fakeUsers{users: map[string]*models.User{}}
	if user != nil {
		users.users[user.ID] = user
	}
	return NewAuthenticator(verifier, users)
}

func activeUser(role models.Role) *models.User {
	return &models.User{
		ID:     "subject-1",
		Email:  "a@example.com",
		Role:   role,
		Active: true,
	}
}

// okHandler records whether it was invoked and captures the principal.
func okHandler() (http.Handler, *bool, **models.User) {
	var called bool
	var principal *models.User
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		principal = PrincipalFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &called, &principal
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestRequireValidToken(t *testing.T) {
	user := activeUser(models.RoleAuthor)
	auth := testAuthenticator(user)
	next, called, principal := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	auth.Require(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if !*called {
		t.Fatal("expected next handler to run")
	}
	if *principal == nil || (*principal).ID != user.ID {
		t.Errorf("principal: got %+v, want user %q", *principal, user.ID)
	}
}

func TestRequireMissingHeader(t *testing.T) {
	auth := testAuthenticator(activeUser(models.RoleAuthor))
	next, called, _ := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	rec := httptest.NewRecorder()

	auth.Require(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if *called {
		t.Error("next handler should not run")
	}
	if msg := errorMessage(t, rec); msg != "Authentication required" {
		t.Errorf("message: got %q", msg)
	}
}

func TestRequireMalformedHeader(t *testing.T) {
	auth := testAuthenticator(activeUser(models.RoleAuthor))

	for _, header := range []string{"good-token", "Basic abc", "Bearer ", "Bearer"} {
		next, called, _ := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		auth.Require(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status got %d, want 401", header, rec.Code)
		}
		if *called {
			t.Errorf("header %q: next handler should not run", header)
		}
	}
}

func TestRequireInvalidToken(t *testing.T) {
	auth := testAuthenticator(activeUser(models.RoleAuthor))
	next, called, _ := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()

	auth.Require(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if *called {
		t.Error("next handler should not run")
	}
	if msg := errorMessage(t, rec); msg != "Invalid or expired token" {
		t.Errorf("message: got %q", msg)
	}
}

func TestRequireUnknownSubject(t *testing.T) {
	// Token verifies but no directory record exists for the subject.
	auth := testAuthenticator(nil)
	next, called, _ := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	auth.Require(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if *called {
		t.Error("next handler should not run")
	}
}

func TestRequireInactiveAccount(t *testing.T) {
	user := activeUser(models.RoleAdmin)
	user.Active = false
	auth := testAuthenticator(user)
	next, called, _ := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	auth.Require(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
	if *called {
		t.Error("next handler should not run")
	}
	if msg := errorMessage(t, rec); msg != "Account is inactive" {
		t.Errorf("message: got %q", msg)
	}
}

func TestVerifyOnlyAllowsUnenrolledSubject(t *testing.T) {
	auth := testAuthenticator(nil)
	var gotClaims *identity.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	auth.VerifyOnly(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if gotClaims == nil || gotClaims.Subject != "subject-1" {
		t.Errorf("claims: got %+v", gotClaims)
	}
}

func TestRequireAction(t *testing.T) {
	tests := []struct {
		name   string
		role   models.Role
		action authz.Action
		want   int
	}{
		{"admin can manage users", models.RoleAdmin, authz.ActionUserCreate, http.StatusOK},
		{"editor cannot manage users", models.RoleEditor, authz.ActionUserCreate, http.StatusForbidden},
		{"author can create posts", models.RoleAuthor, authz.ActionPostCreate, http.StatusOK},
		{"author cannot create categories", models.RoleAuthor, authz.ActionCategoryCreate, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _, _ := okHandler()
			handler := RequireAction(tt.action)(next)

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			ctx := context.WithValue(req.Context(), PrincipalKey, activeUser(tt.role))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req.WithContext(ctx))

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}

	t.Run("no principal", func(t *testing.T) {
		next, called, _ := okHandler()
		handler := RequireAction(authz.ActionPostList)(next)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
		}
		if *called {
			t.Error("next handler should not run")
		}
	})
}

func TestPrincipalFromCtx(t *testing.T) {
	if got := PrincipalFromCtx(context.Background()); got != nil {
		t.Errorf("expected nil without principal, got %+v", got)
	}

	ctx := context.WithValue(context.Background(), PrincipalKey, "not-a-user")
	if got := PrincipalFromCtx(ctx); got != nil {
		t.Errorf("expected nil for wrong type, got %+v", got)
	}
}
