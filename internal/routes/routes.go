package routes

import (
	"net/http"

	"github.com/BradenHooton/quill/internal/auth"
	"github.com/BradenHooton/quill/internal/handlers"
	"github.com/BradenHooton/quill/internal/middleware"
	"github.com/BradenHooton/quill/internal/models"
	"github.com/go-chi/chi/v5"
)

// Handlers groups everything the route table dispatches to
type Handlers struct {
	Auth    *handlers.AuthHandler
	Posts   *handlers.PostHandler
	Users   *handlers.UserHandler
	Health  http.HandlerFunc
	Metrics http.Handler
}

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	h Handlers,
	verifier auth.AccessTokenVerifier,
	publicLimit middleware.RateLimitConfig,
) {
	if h.Health != nil {
		router.Get("/health", h.Health)
	}
	if h.Metrics != nil {
		router.Handle("/metrics", h.Metrics)
	}

	// Public routes. Login has its own per-client limiter in the service.
	router.Route("/auth", func(r chi.Router) {
		limited := r.With(middleware.RateLimitByIP(publicLimit))
		limited.Post("/register", h.Auth.Register)
		limited.Post("/request-reset-password", h.Auth.RequestPasswordReset)
		limited.Post("/reset-password/{token}", h.Auth.ResetPassword)

		r.Post("/login", h.Auth.Login)
		r.Get("/logout", h.Auth.Logout)
		r.Post("/refresh-token", h.Auth.RefreshToken)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticate(verifier))

		r.Get("/posts", h.Posts.ListPosts)
		r.Get("/posts/{postId}", h.Posts.GetPost)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authorize(models.RoleAdmin))
			r.Get("/users", h.Users.ListUsers)
			r.Delete("/users/{userId}", h.Users.DeleteUser)
		})
	})

	router.Route("/moderator", func(r chi.Router) {
		r.Use(auth.Authenticate(verifier))

		r.Get("/posts", h.Posts.ListPosts)
		r.Get("/posts/{postId}", h.Posts.GetPost)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authorize(models.RoleModerator))
			r.Get("/bloggers", h.Users.ListBloggers)
			r.Delete("/posts/{postId}", h.Posts.DeletePost)
		})
	})

	router.Route("/blogger", func(r chi.Router) {
		r.Use(auth.Authenticate(verifier))

		r.Post("/posts", h.Posts.CreatePost)
		r.Get("/posts", h.Posts.ListOwnPosts)
		r.Put("/posts/{postId}", h.Posts.UpdateOwnPost)
		r.Delete("/posts/{postId}", h.Posts.DeleteOwnPost)
	})
}
