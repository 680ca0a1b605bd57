package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/quill/internal/auth"
	"github.com/BradenHooton/quill/internal/models"
	"github.com/BradenHooton/quill/internal/services"
	pkghttp "github.com/BradenHooton/quill/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ContentServiceInterface defines the interface for post business logic
type ContentServiceInterface interface {
	CreatePost(ctx context.Context, authorID string, in services.PostInput) (*models.Post, error)
	ListPosts(ctx context.Context) ([]*models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	UpdateOwnPost(ctx context.Context, authorID, id string, in services.PostInput) (*models.Post, error)
	DeleteOwnPost(ctx context.Context, authorID, id string) error
	DeletePost(ctx context.Context, id string) error
}

// PostHandler serves the blogger post routes and the shared read routes of
// the admin and moderator areas
type PostHandler struct {
	service ContentServiceInterface
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(service ContentServiceInterface) *PostHandler {
	return &PostHandler{service: service}
}

// PostRequest represents the request body for creating or updating a post
type PostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CreatePost creates a post owned by the caller
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req PostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.service.CreatePost(r.Context(), principal.UserID, services.PostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, post)
}

// ListOwnPosts lists the caller's posts
func (h *PostHandler) ListOwnPosts(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	posts, err := h.service.ListPostsByAuthor(r.Context(), principal.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, posts)
}

// UpdateOwnPost updates one of the caller's posts
func (h *PostHandler) UpdateOwnPost(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req PostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.service.UpdateOwnPost(r.Context(), principal.UserID, chi.URLParam(r, "postId"),
		services.PostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, post)
}

// DeleteOwnPost deletes one of the caller's posts
func (h *PostHandler) DeleteOwnPost(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	if err := h.service.DeleteOwnPost(r.Context(), principal.UserID, chi.URLParam(r, "postId")); err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Post deleted successfully"})
}

// ListPosts lists every post
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, posts)
}

// GetPost returns a single post
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, post)
}

// DeletePost deletes any post
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePost(r.Context(), chi.URLParam(r, "postId")); err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Post deleted successfully"})
}
