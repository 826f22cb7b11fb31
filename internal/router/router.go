// Package router sets up all HTTP routes and middleware chains for the
// PressGate API. Routes are grouped by the role table each one enforces.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pressgate/internal/authz"
	"pressgate/internal/handlers"
	"pressgate/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	authn *middleware.Authenticator,
	limiter *middleware.RateLimiter,
	auth *handlers.Auth,
	posts *handlers.Posts,
	categories *handlers.Categories,
	users *handlers.Users,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(limiter.Middleware)

	// Health check — no auth.
	r.Get("/healthz", healthHandler)

	// Token exchange — credentials, not a bearer token.
	r.Post("/auth/token", auth.Token)

	// Sign-in enrolls first-time subjects, so it only verifies the token.
	r.With(authn.VerifyOnly).Post("/auth/signin", auth.SignIn)

	// Everything else requires an enrolled, active user.
	r.Group(func(r chi.Router) {
		r.Use(authn.Require)

		r.Get("/me", auth.Me)

		r.Route("/posts", func(r chi.Router) {
			r.With(middleware.RequireAction(authz.ActionPostList)).Get("/", posts.List)
			r.With(middleware.RequireAction(authz.ActionPostCreate)).Post("/", posts.Create)
			r.With(middleware.RequireAction(authz.ActionPostRead)).Get("/{id}", posts.Get)
			r.With(middleware.RequireAction(authz.ActionPostUpdate)).Put("/{id}", posts.Update)
			r.With(middleware.RequireAction(authz.ActionPostDelete)).Delete("/{id}", posts.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.With(middleware.RequireAction(authz.ActionCategoryRead)).Get("/", categories.List)
			r.With(middleware.RequireAction(authz.ActionCategoryCreate)).Post("/", categories.Create)
			r.With(middleware.RequireAction(authz.ActionCategoryRead)).Get("/{id}", categories.Get)
			r.With(middleware.RequireAction(authz.ActionCategoryUpdate)).Put("/{id}", categories.Update)
			r.With(middleware.RequireAction(authz.ActionCategoryDelete)).Delete("/{id}", categories.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequireAction(authz.ActionUserList)).Get("/", users.List)
			r.With(middleware.RequireAction(authz.ActionUserCreate)).Post("/", users.Create)
			r.With(middleware.RequireAction(authz.ActionUserUpdate)).Put("/{id}", users.Update)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
